package driven

import (
	"context"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// CustomerStore provides read access to customers and their tickets.
// Backed by SQLite by default, Postgres optionally.
type CustomerStore interface {
	// FindCustomerByName returns the first customer whose name contains
	// the given text, compared case-insensitively.
	// Returns domain.ErrNotFound when nothing matches.
	FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error)

	// ListTickets returns tickets for a customer ordered by created_at descending.
	// A limit of zero or less returns every ticket.
	ListTickets(ctx context.Context, customerID int64, limit int) ([]domain.Ticket, error)

	// ListCustomers returns all customers ordered by name.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// CustomerSeeder replaces the store contents with demo data.
type CustomerSeeder interface {
	// Seed clears both tables and inserts the given customers and their tickets.
	// Tickets reference customers by name.
	Seed(ctx context.Context, customers []domain.Customer, tickets []SeedTicket) error
}

// SeedTicket is a ticket to insert during seeding, keyed by customer name.
type SeedTicket struct {
	CustomerName string
	Ticket       domain.Ticket
}
