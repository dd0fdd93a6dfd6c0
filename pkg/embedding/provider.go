package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// From the caller's perspective this is an opaque text -> vector function;
// failures are surfaced as errors and the caller decides how to degrade.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}
