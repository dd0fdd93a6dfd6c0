package entity

import (
	"fmt"
	"time"
)

// KnowledgeEntry is one known question/answer pair in the vector index.
// Only resolved knowledge is indexed: SupervisorResponse is always set.
type KnowledgeEntry struct {
	Key                string
	Question           string
	Status             string
	SupervisorResponse string
	Embedding          []float32
	AnsweredAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// Seeded entries and reconciled entries live in disjoint key namespaces
// so an upsert from one path can never overwrite the other.

// SeedKey builds the vector key for a pre-seeded Q/A pair.
func SeedKey(index int) string {
	return fmt.Sprintf("seed:%d", index)
}

// RequestKey builds the vector key for a reconciled ledger entry. Reusing
// the ledger id keeps reconciliation idempotent without a mapping table.
func RequestKey(ledgerId uint) string {
	return fmt.Sprintf("request:%d", ledgerId)
}
