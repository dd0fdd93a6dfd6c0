package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestNotFound means a resolution referenced a ledger id that
	// doesn't exist. No mutation is performed.
	ErrRequestNotFound = errors.New("help request not found")

	// ErrAlreadyResolved means the row has already transitioned to
	// resolved; a second resolve is rejected rather than double-applied.
	ErrAlreadyResolved = errors.New("help request already resolved")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyQuestion means the question was blank after trimming.
	// Nothing is embedded or ledgered for it.
	ErrEmptyQuestion = errors.New("question must not be empty")
)

// EmbeddingError wraps a failure of the embedding provider. On the answer
// path it is recovered locally by escalating instead of answering.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding provider failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// StoreQueryError wraps a failure of the vector store query; recovered the
// same way as EmbeddingError.
type StoreQueryError struct {
	Err error
}

func (e *StoreQueryError) Error() string {
	return fmt.Sprintf("knowledge store query failed: %v", e.Err)
}

func (e *StoreQueryError) Unwrap() error { return e.Err }

// PersistenceError means the escalation ledger write failed. The caller
// must log/alert on it but still finish the user-facing turn gracefully.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger write failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ReindexError means the knowledge upsert after a resolution failed. The
// ledger stays authoritative; the index is stale until the queued reindex
// or a rebuild catches up.
type ReindexError struct {
	RequestId uint
	Err       error
}

func (e *ReindexError) Error() string {
	return fmt.Sprintf("knowledge reindex failed for request %d: %v", e.RequestId, e.Err)
}

func (e *ReindexError) Unwrap() error { return e.Err }
