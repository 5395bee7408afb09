package driven

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// PostProcessor processes page text to produce chunks.
// PostProcessors are chained in a pipeline.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a page and returns chunks.
	// If the processor creates chunks (e.g., chunker), it receives nil and returns new chunks.
	Process(ctx context.Context, page *domain.PageText, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the page through all processors in order.
	Process(ctx context.Context, page *domain.PageText) ([]domain.Chunk, error)
}

// PipelineBuilder creates a chunking pipeline for the requested chunk geometry.
type PipelineBuilder interface {
	Build(chunkSize, chunkOverlap int) (PostProcessorPipeline, error)
}
