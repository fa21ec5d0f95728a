package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrEmptyContent indicates a document contained no usable text
	// after trimming whitespace.
	ErrEmptyContent = errors.New("document contains no extractable text")

	// ErrNoChunksProduced indicates the chunker yielded zero spans.
	// Unreachable when the empty-content guard holds, but callers
	// must still handle it.
	ErrNoChunksProduced = errors.New("no chunks produced from document")

	// ErrIngestionFailed wraps any failure on the write path.
	// Use errors.Is to detect it; the underlying cause is wrapped.
	ErrIngestionFailed = errors.New("ingestion failed")

	// Vector Index Errors.

	// ErrDuplicateID indicates a chunk ID already exists within the
	// owner's namespace. The index never silently overwrites.
	ErrDuplicateID = errors.New("duplicate chunk id in namespace")

	// ErrDimensionMismatch indicates a vector's width does not match
	// the index's configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Backend Errors.

	// ErrModelUnavailable indicates the embedding model could not be
	// loaded. Treated as fatal for the process, not retried per call.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrBackendUnavailable indicates the vector store or LLM backend
	// could not be reached (network, auth, quota).
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
