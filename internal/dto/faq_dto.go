package dto

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

type AskResponse struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Escalated  bool    `json:"escalated"`
	RequestId  uint    `json:"request_id,omitempty"` // ledger id when escalated
}
