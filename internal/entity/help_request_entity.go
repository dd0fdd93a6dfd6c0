package entity

import (
	"time"
)

// HelpRequest is one row of the escalation ledger: a question the agent
// could not answer with enough confidence. The ledger is the system of
// record for the escalation lifecycle; the knowledge index is derived
// from it.
type HelpRequest struct {
	Id                 uint
	Question           string
	Status             string
	SupervisorResponse *string
	CreatedAt          time.Time
	AnsweredAt         *time.Time
}
