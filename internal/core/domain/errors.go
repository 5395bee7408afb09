package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the text generation service could not be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service could not be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrBackendUnavailable indicates a vector or relational backend failed to initialise.
	// It is fatal at startup; nothing retries it.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrCorruptIndex indicates a local vector index failed checksum or decoding.
	// No automatic re-indexing is attempted.
	ErrCorruptIndex = errors.New("corrupt vector index")
)
