// Package local provides a file-backed vector store.
//
// The index lives in a single directory:
//
//   - index.msgpack: msgpack-encoded entries grouped by namespace. Its
//     presence is what marks the index as existing.
//   - index.sum: hex xxhash64 of index.msgpack, checked before decoding.
//
// Every Upsert rewrites both files in full. The checksum detects accidental
// corruption only; the directory is trusted local state and is not
// protected against tampering. The store is safe for concurrent use within
// one process but not across processes writing the same directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// On-disk file names.
const (
	IndexFile    = "index.msgpack"
	ChecksumFile = "index.sum"
)

// formatVersion is bumped when the encoded layout changes.
const formatVersion = 1

// index is the encoded file content.
type index struct {
	Version    int                `msgpack:"version"`
	Model      string             `msgpack:"model"`
	Dimensions int                `msgpack:"dimensions"`
	Namespaces map[string][]entry `msgpack:"namespaces"`
}

// entry is one stored chunk.
type entry struct {
	ID       string    `msgpack:"id"`
	Content  string    `msgpack:"content"`
	Position int       `msgpack:"position"`
	Source   string    `msgpack:"source"`
	Page     int       `msgpack:"page"`
	Vector   []float32 `msgpack:"vector"`
}

// Store is a brute-force cosine similarity index persisted to a directory.
type Store struct {
	mu       sync.Mutex
	dir      string
	embedder driven.EmbeddingService
}

// NewStore creates a store rooted at dir. Nothing is written until the
// first Upsert.
func NewStore(dir string, embedder driven.EmbeddingService) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: index directory is required", domain.ErrInvalidInput)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrInvalidInput)
	}
	return &Store{dir: dir, embedder: embedder}, nil
}

// Dir returns the index directory.
func (s *Store) Dir() string {
	return s.dir
}

// Backend reports the local backend.
func (s *Store) Backend() domain.VectorBackend {
	return domain.VectorBackendLocal
}

// Exists reports whether the index marker file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, IndexFile))
	return err == nil
}

// Upsert embeds the chunks and appends them to the namespace. An absent
// index is created; an existing one is loaded, extended and rewritten.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, namespace string) error {
	if len(chunks) == 0 {
		return nil
	}
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("Creating local index at %s", s.dir)
		idx = &index{
			Version:    formatVersion,
			Model:      s.embedder.ModelName(),
			Dimensions: len(vectors[0]),
			Namespaces: make(map[string][]entry),
		}
	case err != nil:
		return err
	}

	for i, c := range chunks {
		if len(vectors[i]) != idx.Dimensions {
			return fmt.Errorf("%w: vector has %d dimensions, index has %d",
				domain.ErrCorruptIndex, len(vectors[i]), idx.Dimensions)
		}
		idx.Namespaces[namespace] = append(idx.Namespaces[namespace], toEntry(c, vectors[i]))
	}

	if err := s.save(idx); err != nil {
		return err
	}
	logger.Debug("Local index now holds %d chunks in namespace %s", len(idx.Namespaces[namespace]), namespace)
	return nil
}

// Search embeds the query and returns the k most similar chunks of the
// namespace. A missing index or namespace yields an empty result.
func (s *Store) Search(ctx context.Context, query string, k int, namespace string) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}

	s.mu.Lock()
	idx, err := s.load()
	s.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Local index not found at %s", s.dir)
		return []domain.RetrievedChunk{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := idx.Namespaces[namespace]
	if len(entries) == 0 {
		return []domain.RetrievedChunk{}, nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(qvec) != idx.Dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index built with %s has %d",
			domain.ErrCorruptIndex, len(qvec), idx.Model, idx.Dimensions)
	}

	results := make([]domain.RetrievedChunk, len(entries))
	for i, e := range entries {
		results[i] = domain.RetrievedChunk{
			Chunk: e.toChunk(),
			Score: cosine(qvec, e.Vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// Count returns the number of chunks stored in the namespace.
func (s *Store) Count(namespace string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(idx.Namespaces[namespace]), nil
}

// Close releases resources. The store holds no open files between calls.
func (s *Store) Close() error {
	return nil
}

// load reads and verifies the index. Returns an error wrapping
// os.ErrNotExist when the marker file is absent.
func (s *Store) load() (*index, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, IndexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	sum, err := os.ReadFile(filepath.Join(s.dir, ChecksumFile))
	if err != nil {
		return nil, fmt.Errorf("%w: reading checksum: %v", domain.ErrCorruptIndex, err)
	}
	want, err := strconv.ParseUint(strings.TrimSpace(string(sum)), 16, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed checksum", domain.ErrCorruptIndex)
	}
	if got := xxhash.Sum64(data); got != want {
		return nil, fmt.Errorf("%w: checksum %016x does not match %016x", domain.ErrCorruptIndex, got, want)
	}

	var idx index
	if err := msgpack.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: decoding index: %v", domain.ErrCorruptIndex, err)
	}
	if idx.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported index version %d", domain.ErrCorruptIndex, idx.Version)
	}
	for ns, entries := range idx.Namespaces {
		for _, e := range entries {
			if len(e.Vector) != idx.Dimensions {
				return nil, fmt.Errorf("%w: entry %q in %q has %d dimensions, index has %d",
					domain.ErrCorruptIndex, e.ID, ns, len(e.Vector), idx.Dimensions)
			}
		}
	}
	if idx.Namespaces == nil {
		idx.Namespaces = make(map[string][]entry)
	}
	return &idx, nil
}

// save writes the index and its checksum through temp files renamed into place.
// The checksum is written last so a crash mid-save leaves a detectable mismatch.
func (s *Store) save(idx *index) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	data, err := msgpack.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, IndexFile), data); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	sum := fmt.Sprintf("%016x\n", xxhash.Sum64(data))
	if err := writeFileAtomic(filepath.Join(s.dir, ChecksumFile), []byte(sum)); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func toEntry(c domain.Chunk, vec []float32) entry {
	e := entry{
		ID:       c.ID,
		Content:  c.Content,
		Position: c.Position,
		Source:   c.Source(),
		Vector:   vec,
	}
	if page, ok := c.Metadata[domain.MetadataPage].(int); ok {
		e.Page = page
	}
	return e
}

func (e entry) toChunk() domain.Chunk {
	return domain.Chunk{
		ID:       e.ID,
		Content:  e.Content,
		Position: e.Position,
		Metadata: map[string]any{
			domain.MetadataSource: e.Source,
			domain.MetadataPage:   e.Page,
		},
	}
}

// cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or the lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
