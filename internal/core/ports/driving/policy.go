package driving

import "context"

// PolicyAgent indexes policy PDFs and answers questions from them.
type PolicyAgent interface {
	// Index extracts, chunks and stores the given PDFs.
	// Returns the number of chunks produced.
	Index(ctx context.Context, paths []string, opts IndexOptions) (int, error)

	// Answer returns the top retrieved snippets formatted as numbered lines.
	Answer(ctx context.Context, question string, opts AnswerOptions) (string, error)
}

// IndexOptions configures policy indexing. Zero values select defaults.
type IndexOptions struct {
	// Namespace is the vector store partition (default "__default__").
	Namespace string

	// ChunkSize is the maximum chunk length in characters (default 1000).
	ChunkSize int

	// ChunkOverlap is the repeated context between chunks (default 200).
	// A negative value disables overlap.
	ChunkOverlap int
}

// AnswerOptions configures policy answering. Zero values select defaults.
type AnswerOptions struct {
	// K is the number of snippets to retrieve (default 3).
	K int

	// Namespace is the vector store partition (default "__default__").
	Namespace string
}
