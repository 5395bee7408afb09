// Package postprocessors builds the page chunking stage of policy indexing.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/postprocessors/chunker"
)

// Ensure Builder implements the interface.
var _ driven.PipelineBuilder = (*Builder)(nil)

// Builder creates page chunkers for a requested chunk geometry.
type Builder struct {
	separators []string
}

// NewBuilder creates a builder. With no separators, the chunker's default
// hierarchy (paragraph, line, word, character) is used.
func NewBuilder(separators ...string) *Builder {
	return &Builder{separators: separators}
}

// Build returns a pipeline that splits each page into chunks of at most
// chunkSize characters sharing chunkOverlap characters.
// Returns domain.ErrInvalidInput for a non-positive size, a negative
// overlap, or an overlap that is not smaller than the size.
func (b *Builder) Build(chunkSize, chunkOverlap int) (driven.PostProcessorPipeline, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", domain.ErrInvalidInput, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d", domain.ErrInvalidInput, chunkOverlap)
	}

	p, err := chunker.New(
		chunker.WithChunkSize(chunkSize),
		chunker.WithOverlap(chunkOverlap),
		chunker.WithSeparators(b.separators...),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return &pageSplitter{processor: p}, nil
}

// pageSplitter runs a single chunker over each page.
type pageSplitter struct {
	processor driven.PostProcessor
}

func (s *pageSplitter) Process(ctx context.Context, page *domain.PageText) ([]domain.Chunk, error) {
	if page == nil {
		return nil, fmt.Errorf("%w: page is nil", domain.ErrInvalidInput)
	}

	chunks, err := s.processor.Process(ctx, page, nil)
	if err != nil {
		return nil, fmt.Errorf("processor %s: %w", s.processor.Name(), err)
	}
	return chunks, nil
}
