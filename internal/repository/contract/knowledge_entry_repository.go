package contract

import (
	"context"

	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/repository/specification"
)

// ScoredKnowledgeEntry wraps a KnowledgeEntry with its cosine similarity
type ScoredKnowledgeEntry struct {
	Entry      *entity.KnowledgeEntry
	Similarity float64 // -1.0 to 1.0 (1.0 = identical); practically [0,1] for normalized text embeddings
}

type KnowledgeEntryRepository interface {
	// Upsert inserts or overwrites the entry stored under entry.Key.
	// Repeated upserts for the same key are idempotent (last write wins).
	Upsert(ctx context.Context, entry *entity.KnowledgeEntry) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchNearest returns the k nearest entries by cosine similarity,
	// best match first.
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*ScoredKnowledgeEntry, error)
}
