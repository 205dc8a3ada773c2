// ABOUTME: Error taxonomy for the knowledge base retrieval core
// ABOUTME: Sentinel errors matched via errors.Is; implementations wrap causes
package kb

import "errors"

var (
	// ErrInvalidSearchParams marks a caller request that violates a
	// precondition (empty query, MaxResults < 1). Never retried.
	ErrInvalidSearchParams = errors.New("invalid search parameters")

	// ErrEmptyInput marks empty or whitespace-only content passed to the
	// embedding path. Rejected before any provider call.
	ErrEmptyInput = errors.New("empty input")

	// ErrEmbeddingProvider marks a transient or permanent embedding provider
	// failure after bounded retries. Callers may retry with backoff.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrStorageRead marks a vector store connectivity or query failure.
	// No partial result list accompanies this error.
	ErrStorageRead = errors.New("storage read failure")

	// ErrStorageWrite marks a vector store persistence failure. An insert is
	// durable only once InsertVector has returned successfully.
	ErrStorageWrite = errors.New("storage write failure")
)
