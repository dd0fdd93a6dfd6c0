package dto

import "time"

type HelpRequestResponse struct {
	Id                 uint       `json:"id"`
	Question           string     `json:"question"`
	Status             string     `json:"status"`
	SupervisorResponse *string    `json:"supervisor_response"`
	CreatedAt          time.Time  `json:"created_at"`
	AnsweredAt         *time.Time `json:"answered_at"`
}

type ResolveRequest struct {
	Id       uint
	Response string `json:"response" validate:"required"`
}

type ResolveResponse struct {
	Id         uint      `json:"id"`
	Status     string    `json:"status"`
	AnsweredAt time.Time `json:"answered_at"`
	// Reindexed reports whether the knowledge index was updated in this
	// call. False means the ledger is resolved but the index update was
	// queued for retry.
	Reindexed bool `json:"reindexed"`
}

type RebuildResponse struct {
	Enqueued int `json:"enqueued"`
}

type ReindexKnowledgeMessage struct {
	RequestId uint `json:"request_id"`
}
