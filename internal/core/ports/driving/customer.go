package driving

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// CustomerAgent answers questions about known customers and their tickets.
type CustomerAgent interface {
	// Answer resolves the customer named in the question and summarises
	// their profile and/or tickets. Unrecognised or unknown customers are
	// reported as text, not as errors.
	Answer(ctx context.Context, question string) (string, error)
}

// CustomerDirectory exposes raw customer records to outer surfaces.
type CustomerDirectory interface {
	// ListCustomers returns every customer ordered by name.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	// CustomerTickets returns the customer whose name contains the given
	// text and their tickets, newest first.
	// Returns domain.ErrNotFound when no customer matches.
	CustomerTickets(ctx context.Context, name string) (*domain.Customer, []domain.Ticket, error)
}
