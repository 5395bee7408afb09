package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// mockRouter routes on a fixed keyword and records questions.
type mockRouter struct {
	err       error
	questions []string
}

func (m *mockRouter) RouteAndAnswer(_ context.Context, question string) (domain.RoutedAnswer, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return domain.RoutedAnswer{}, m.err
	}
	route := domain.RoutePolicy
	answer := "1) Refunds are available within 30 days."
	if question == "Show Ema Ali tickets" {
		route = domain.RouteCustomer
		answer = "- Ema Ali: Delivery issue (Open)"
	}
	return domain.RoutedAnswer{Question: question, Route: route, Answer: answer}, nil
}

// mockPolicyAgent records index calls.
type mockPolicyAgent struct {
	mu      sync.Mutex
	chunks  int
	err     error
	paths   [][]string
	opts    []driving.IndexOptions
	indexed chan string
}

func (m *mockPolicyAgent) Index(_ context.Context, paths []string, opts driving.IndexOptions) (int, error) {
	m.mu.Lock()
	m.paths = append(m.paths, paths)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	if m.indexed != nil {
		for _, p := range paths {
			m.indexed <- p
		}
	}
	return m.chunks, m.err
}

func (m *mockPolicyAgent) Answer(_ context.Context, _ string, _ driving.AnswerOptions) (string, error) {
	return "1) Refunds are available within 30 days.", nil
}

type mockCustomerAgent struct{}

func (mockCustomerAgent) Answer(_ context.Context, _ string) (string, error) {
	return "- Ema Ali", nil
}

type mockSeedService struct {
	err   error
	calls int
}

func (m *mockSeedService) Seed(_ context.Context) (driving.SeedResult, error) {
	m.calls++
	if m.err != nil {
		return driving.SeedResult{}, m.err
	}
	return driving.SeedResult{Customers: 3, Tickets: 4}, nil
}

// testServices exposes the mocks installed by setupTestServices.
type testServices struct {
	router *mockRouter
	policy *mockPolicyAgent
	seed   *mockSeedService
	closed bool
}

// setupTestServices installs mock services and returns a cleanup function
// restoring the previous loader and flag values.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		router: &mockRouter{},
		policy: &mockPolicyAgent{chunks: 7},
		seed:   &mockSeedService{},
	}

	prevLoader, prevServices := loader, services
	SetServiceLoader(func(context.Context, LoadOptions) (*Services, error) {
		return &Services{
			Router:   ts.router,
			Policy:   ts.policy,
			Customer: mockCustomerAgent{},
			Seed:     ts.seed,
			Close: func() error {
				ts.closed = true
				return nil
			},
		}, nil
	})

	return ts, func() {
		loader, services = prevLoader, prevServices
		askJSON = false
		indexNamespace, indexChunkSize, indexChunkOverlap, indexWatch = "", 0, 0, ""
		verbose = false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}
