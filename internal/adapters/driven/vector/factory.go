// Package vector selects and constructs the vector store backend.
package vector

import (
	"context"
	"fmt"

	"github.com/custodia-labs/supportdesk/internal/adapters/driven/vector/local"
	"github.com/custodia-labs/supportdesk/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// New builds the store chosen by settings.Backend. An empty backend is
// resolved from the remote credentials.
func New(ctx context.Context, settings domain.VectorStoreSettings, embedder driven.EmbeddingService) (driven.VectorStore, error) {
	backend := settings.Backend
	if backend == "" {
		backend = domain.ResolveVectorBackend(settings.IndexName, settings.APIKey)
	}

	switch backend {
	case domain.VectorBackendRemote:
		logger.Debug("Vector backend: %s (index %s)", backend.Description(), settings.IndexName)
		return pinecone.NewStore(ctx, pinecone.Config{
			APIKey:     settings.APIKey,
			IndexName:  settings.IndexName,
			ControlURL: settings.ControlURL,
		}, embedder)
	case domain.VectorBackendLocal:
		logger.Debug("Vector backend: %s (%s)", backend.Description(), settings.LocalDir)
		return local.NewStore(settings.LocalDir, embedder)
	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, backend)
	}
}
