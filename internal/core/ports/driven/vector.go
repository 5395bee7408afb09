package driven

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// VectorStore stores policy chunks and answers nearest-neighbour queries.
// Backed by a local file index or a hosted Pinecone index.
type VectorStore interface {
	// Upsert adds chunks to the index under the given namespace.
	Upsert(ctx context.Context, chunks []domain.Chunk, namespace string) error

	// Search returns at most k chunks ordered by descending similarity.
	// An index that does not exist yet yields an empty result, not an error.
	Search(ctx context.Context, query string, k int, namespace string) ([]domain.RetrievedChunk, error)

	// Backend reports which implementation is in use.
	Backend() domain.VectorBackend

	// Close releases resources.
	Close() error
}
