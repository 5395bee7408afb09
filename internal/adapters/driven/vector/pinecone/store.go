// Package pinecone provides a vector store backed by a hosted Pinecone index.
package pinecone

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// UpsertBatchSize is the number of vectors sent per upsert request.
const UpsertBatchSize = 100

// Metadata keys stored alongside each vector.
const (
	metaText   = "text"
	metaSource = "source"
	metaPage   = "page"
)

// Config holds configuration for the Pinecone store.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the existing index to use (required).
	IndexName string

	// ControlURL overrides the control plane (default: https://api.pinecone.io).
	ControlURL string

	// RequestsPerSecond caps the request rate (default: 10).
	RequestsPerSecond float64

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Store upserts and queries chunks in a Pinecone index.
type Store struct {
	client    *client
	host      string
	indexName string
	embedder  driven.EmbeddingService
}

// NewStore resolves the index host and returns a ready store. Failure to
// reach the control plane is reported as domain.ErrBackendUnavailable.
func NewStore(ctx context.Context, cfg Config, embedder driven.EmbeddingService) (*Store, error) {
	if cfg.APIKey == "" || cfg.IndexName == "" {
		return nil, fmt.Errorf("%w: pinecone API key and index name are required", domain.ErrInvalidInput)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrInvalidInput)
	}
	if cfg.ControlURL == "" {
		cfg.ControlURL = DefaultControlURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	c := &client{
		http:    httpClient,
		apiKey:  cfg.APIKey,
		limiter: NewRateLimiter(cfg.RequestsPerSecond, DefaultBurst),
	}

	desc, err := c.describeIndex(ctx, cfg.ControlURL, cfg.IndexName)
	if err != nil {
		return nil, fmt.Errorf("resolving index %s: %w", cfg.IndexName, err)
	}
	if desc.Dimension > 0 && desc.Dimension != embedder.Dimensions() {
		logger.Warn("Pinecone index %s has %d dimensions but %s produces %d",
			cfg.IndexName, desc.Dimension, embedder.ModelName(), embedder.Dimensions())
	}
	logger.Debug("Resolved Pinecone index %s at %s", cfg.IndexName, desc.Host)

	return &Store{
		client:    c,
		host:      hostURL(desc.Host),
		indexName: cfg.IndexName,
		embedder:  embedder,
	}, nil
}

// Backend reports the remote backend.
func (s *Store) Backend() domain.VectorBackend {
	return domain.VectorBackendRemote
}

// Upsert embeds the chunks and sends them in batches of UpsertBatchSize.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, namespace string) error {
	if len(chunks) == 0 {
		return nil
	}
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}

	for start := 0; start < len(chunks); start += UpsertBatchSize {
		end := min(start+UpsertBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
		}

		req := upsertRequest{Namespace: namespace, Vectors: make([]vector, len(batch))}
		for i, c := range batch {
			id := c.ID
			if id == "" {
				id = uuid.NewString()
			}
			req.Vectors[i] = vector{ID: id, Values: vectors[i], Metadata: toMetadata(c)}
		}

		n, err := s.client.upsert(ctx, s.host, req)
		if err != nil {
			return fmt.Errorf("upserting batch %d-%d: %w", start, end, err)
		}
		logger.Debug("Upserted %d vectors into %s/%s", n, s.indexName, namespace)
	}
	return nil
}

// Search embeds the query and returns the top k matches in the namespace.
// An unknown namespace yields an empty result.
func (s *Store) Search(ctx context.Context, query string, k int, namespace string) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	resp, err := s.client.query(ctx, s.host, queryRequest{
		Vector:          qvec,
		TopK:            k,
		Namespace:       namespace,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.indexName, err)
	}

	results := make([]domain.RetrievedChunk, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		text, _ := m.Metadata[metaText].(string)
		if text == "" {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk: fromMetadata(m.ID, text, m.Metadata),
			Rank:  len(results) + 1,
			Score: m.Score,
		})
	}
	return results, nil
}

// Close releases resources.
func (s *Store) Close() error {
	s.client.http.CloseIdleConnections()
	return nil
}

func toMetadata(c domain.Chunk) map[string]any {
	md := map[string]any{
		metaText:   c.Content,
		metaSource: c.Source(),
	}
	if page, ok := c.Metadata[domain.MetadataPage].(int); ok {
		md[metaPage] = page
	}
	return md
}

// fromMetadata rebuilds a chunk. JSON numbers decode as float64.
func fromMetadata(id, text string, md map[string]any) domain.Chunk {
	source, _ := md[metaSource].(string)
	chunk := domain.Chunk{
		ID:       id,
		Content:  text,
		Metadata: map[string]any{domain.MetadataSource: source},
	}
	if page, ok := md[metaPage].(float64); ok {
		chunk.Metadata[domain.MetadataPage] = int(page)
	}
	return chunk
}
