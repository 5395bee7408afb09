package mcp

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// mockPolicyAgent is a mock implementation of driving.PolicyAgent.
type mockPolicyAgent struct {
	answer   string
	err      error
	question string
	opts     driving.AnswerOptions
}

func (m *mockPolicyAgent) Index(_ context.Context, _ []string, _ driving.IndexOptions) (int, error) {
	return 0, m.err
}

func (m *mockPolicyAgent) Answer(_ context.Context, question string, opts driving.AnswerOptions) (string, error) {
	m.question = question
	m.opts = opts
	return m.answer, m.err
}

// mockCustomerAgent is a mock implementation of driving.CustomerAgent.
type mockCustomerAgent struct {
	answer   string
	err      error
	question string
}

func (m *mockCustomerAgent) Answer(_ context.Context, question string) (string, error) {
	m.question = question
	return m.answer, m.err
}

// mockDirectory is a mock implementation of driving.CustomerDirectory.
type mockDirectory struct {
	customers []domain.Customer
	tickets   map[string][]domain.Ticket
	err       error
	lastName  string
}

func (m *mockDirectory) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	return m.customers, m.err
}

func (m *mockDirectory) CustomerTickets(_ context.Context, name string) (*domain.Customer, []domain.Ticket, error) {
	m.lastName = name
	if m.err != nil {
		return nil, nil, m.err
	}
	for i := range m.customers {
		if m.customers[i].Name == name {
			return &m.customers[i], m.tickets[name], nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

func newTestPorts() *Ports {
	return &Ports{
		Policy:   &mockPolicyAgent{answer: "1. Refunds are issued within 14 days."},
		Customer: &mockCustomerAgent{answer: "- Ema Ali has 2 tickets"},
	}
}
