package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure PolicyService implements the interface.
var _ driving.PolicyAgent = (*PolicyService)(nil)

// Policy defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 3
)

// NoPolicyTextMessage is returned when retrieval finds nothing.
const NoPolicyTextMessage = "No relevant policy text found. Upload and index a PDF first."

// PolicyService indexes policy PDFs and answers from retrieved snippets.
type PolicyService struct {
	extractor driven.TextExtractor
	pipelines driven.PipelineBuilder
	store     driven.VectorStore

	// Configured defaults; zero fields fall back to the package constants.
	retrieval domain.RetrievalSettings
	namespace string
}

// NewPolicyService creates a new policy agent.
func NewPolicyService(
	extractor driven.TextExtractor,
	pipelines driven.PipelineBuilder,
	store driven.VectorStore,
) *PolicyService {
	return &PolicyService{
		extractor: extractor,
		pipelines: pipelines,
		store:     store,
	}
}

// SetDefaults overrides the chunking, top-k and namespace defaults applied
// when options are left zero.
func (s *PolicyService) SetDefaults(retrieval domain.RetrievalSettings, namespace string) {
	s.retrieval = retrieval
	s.namespace = namespace
}

// Index extracts every page of every file, chunks it and upserts the chunks.
// Returns the number of chunks produced, which may differ from the number
// stored if the backend deduplicates.
func (s *PolicyService) Index(ctx context.Context, paths []string, opts driving.IndexOptions) (int, error) {
	if len(paths) == 0 {
		return 0, fmt.Errorf("%w: no files to index", domain.ErrInvalidInput)
	}
	sizeGiven, overlapGiven := opts.ChunkSize > 0, opts.ChunkOverlap != 0
	if opts.Namespace == "" {
		opts.Namespace = s.namespace
	}
	if !sizeGiven {
		opts.ChunkSize = s.retrieval.ChunkSize
	}
	if !overlapGiven {
		opts.ChunkOverlap = s.retrieval.ChunkOverlap
	}
	opts = withIndexDefaults(opts)

	// An inherited overlap is scaled down to fit a smaller requested size.
	// An overlap the caller set that does not fit is rejected by the builder.
	if sizeGiven && !overlapGiven && opts.ChunkOverlap >= opts.ChunkSize {
		opts.ChunkOverlap = opts.ChunkSize / 5
	}

	logger.Section("Policy Indexing")
	logger.Debug("Files: %d, namespace: %s, chunk size: %d, overlap: %d",
		len(paths), opts.Namespace, opts.ChunkSize, opts.ChunkOverlap)

	pipeline, err := s.pipelines.Build(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return 0, fmt.Errorf("building chunker: %w", err)
	}

	var chunks []domain.Chunk
	for _, path := range paths {
		pages, err := s.extractor.Extract(ctx, path)
		if err != nil {
			return 0, fmt.Errorf("extracting %s: %w", path, err)
		}

		for i := range pages {
			pageChunks, err := pipeline.Process(ctx, &pages[i])
			if err != nil {
				return 0, fmt.Errorf("chunking %s page %d: %w", path, pages[i].Page, err)
			}
			chunks = append(chunks, pageChunks...)
		}
		logger.Debug("Extracted %d pages from %s", len(pages), path)
	}

	if len(chunks) == 0 {
		logger.Warn("No text found in %d file(s); nothing indexed", len(paths))
		return 0, nil
	}

	if err := s.store.Upsert(ctx, chunks, opts.Namespace); err != nil {
		return 0, fmt.Errorf("upserting chunks: %w", err)
	}

	logger.Info("Indexed %d chunks into %s backend", len(chunks), s.store.Backend())
	return len(chunks), nil
}

// Answer retrieves the top-k snippets for the question and formats them.
// No generation is applied; the answer is the retrieved text itself.
func (s *PolicyService) Answer(ctx context.Context, question string, opts driving.AnswerOptions) (string, error) {
	if opts.K <= 0 {
		opts.K = s.retrieval.TopK
	}
	if opts.K <= 0 {
		opts.K = DefaultTopK
	}
	if opts.Namespace == "" {
		opts.Namespace = s.namespace
	}
	if opts.Namespace == "" {
		opts.Namespace = domain.DefaultNamespace
	}

	results, err := s.store.Search(ctx, question, opts.K, opts.Namespace)
	if err != nil {
		return "", fmt.Errorf("searching policy index: %w", err)
	}
	logger.Debug("Retrieved %d policy chunks", len(results))

	return FormatSnippets(results), nil
}

// FormatSnippets renders retrieved chunks as numbered, whitespace-collapsed
// lines separated by blank lines. An empty input yields NoPolicyTextMessage.
func FormatSnippets(results []domain.RetrievedChunk) string {
	if len(results) == 0 {
		return NoPolicyTextMessage
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		snippet := strings.Join(strings.Fields(r.Chunk.Content), " ")
		lines = append(lines, fmt.Sprintf("%d) %s", i+1, snippet))
	}
	return strings.Join(lines, "\n\n")
}

func withIndexDefaults(opts driving.IndexOptions) driving.IndexOptions {
	if opts.Namespace == "" {
		opts.Namespace = domain.DefaultNamespace
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	switch {
	case opts.ChunkOverlap == 0:
		opts.ChunkOverlap = DefaultChunkOverlap
	case opts.ChunkOverlap < 0:
		opts.ChunkOverlap = 0
	}
	return opts
}
