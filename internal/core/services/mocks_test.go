package services

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService and records the last prompt.
type mockLLM struct {
	response   string
	err        error
	calls      int
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore with word-overlap scoring.
type mockVectorStore struct {
	namespaces  map[string][]domain.Chunk
	upsertCalls int
	upsertErr   error
	searchErr   error
	lastK       int
	lastNS      string
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{namespaces: make(map[string][]domain.Chunk)}
}

func (m *mockVectorStore) Upsert(_ context.Context, chunks []domain.Chunk, namespace string) error {
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.namespaces[namespace] = append(m.namespaces[namespace], chunks...)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, query string, k int, namespace string) ([]domain.RetrievedChunk, error) {
	m.lastK = k
	m.lastNS = namespace
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	words := strings.Fields(strings.ToLower(query))
	var results []domain.RetrievedChunk
	for _, c := range m.namespaces[namespace] {
		content := strings.ToLower(c.Content)
		score := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				score++
			}
		}
		if score > 0 {
			results = append(results, domain.RetrievedChunk{Chunk: c, Score: float64(score)})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

func (m *mockVectorStore) Backend() domain.VectorBackend { return domain.VectorBackendLocal }
func (m *mockVectorStore) Close() error                  { return nil }

// mockExtractor implements driven.TextExtractor from a path-to-pages map.
type mockExtractor struct {
	pages map[string][]domain.PageText
	err   error
}

func (m *mockExtractor) Extract(_ context.Context, path string) ([]domain.PageText, error) {
	if m.err != nil {
		return nil, m.err
	}
	pages, ok := m.pages[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pages, nil
}

// countingCustomerStore wraps a CustomerStore and counts calls.
type countingCustomerStore struct {
	driven.CustomerStore
	findCalls   int
	ticketCalls int
	lastLimit   int
	findErr     error
}

func (s *countingCustomerStore) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.CustomerStore.FindCustomerByName(ctx, name)
}

func (s *countingCustomerStore) ListTickets(ctx context.Context, id int64, limit int) ([]domain.Ticket, error) {
	s.ticketCalls++
	s.lastLimit = limit
	return s.CustomerStore.ListTickets(ctx, id, limit)
}

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockPolicyAgent implements driving.PolicyAgent.
type mockPolicyAgent struct {
	answer string
	err    error
	calls  int
}

func (m *mockPolicyAgent) Index(_ context.Context, _ []string, _ driving.IndexOptions) (int, error) {
	return 0, nil
}

func (m *mockPolicyAgent) Answer(_ context.Context, _ string, _ driving.AnswerOptions) (string, error) {
	m.calls++
	return m.answer, m.err
}

// mockCustomerAgent implements driving.CustomerAgent.
type mockCustomerAgent struct {
	answer string
	err    error
	calls  int
}

func (m *mockCustomerAgent) Answer(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.answer, m.err
}
