package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
)

// Ensure CustomerStore implements the interfaces.
var (
	_ driven.CustomerStore  = (*CustomerStore)(nil)
	_ driven.CustomerSeeder = (*CustomerStore)(nil)
)

// CustomerStore is an in-memory implementation of driven.CustomerStore.
// Customers keep insertion order so name lookups match the SQL store,
// which returns the lowest id first.
type CustomerStore struct {
	mu        sync.RWMutex
	customers []domain.Customer
	tickets   []domain.Ticket
	nextID    int64
}

// NewCustomerStore creates a new in-memory customer store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{nextID: 1}
}

// AddCustomer stores a customer and returns it with its assigned ID.
func (s *CustomerStore) AddCustomer(c domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	s.customers = append(s.customers, c)
	return c
}

// AddTicket stores a ticket and returns it with its assigned ID.
func (s *CustomerStore) AddTicket(t domain.Ticket) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = int64(len(s.tickets) + 1)
	s.tickets = append(s.tickets, t)
	return t
}

// FindCustomerByName returns the first customer whose name contains name,
// ignoring case.
func (s *CustomerStore) FindCustomerByName(_ context.Context, name string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(name)
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListTickets returns the customer's tickets, newest first, with ties
// broken by descending id like the SQL stores.
func (s *CustomerStore) ListTickets(_ context.Context, customerID int64, limit int) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Ticket, 0)
	for _, t := range s.tickets {
		if t.CustomerID == customerID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListCustomers returns all customers ordered by name.
func (s *CustomerStore) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Customer, len(s.customers))
	copy(result, s.customers)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Seed replaces all customers and tickets. Every ticket must name a seeded
// customer; otherwise the store is left unchanged.
func (s *CustomerStore) Seed(_ context.Context, customers []domain.Customer, tickets []driven.SeedTicket) error {
	ids := make(map[string]int64, len(customers))
	seeded := make([]domain.Customer, 0, len(customers))
	for i, c := range customers {
		c.ID = int64(i + 1)
		ids[c.Name] = c.ID
		seeded = append(seeded, c)
	}

	seededTickets := make([]domain.Ticket, 0, len(tickets))
	for i, st := range tickets {
		id, ok := ids[st.CustomerName]
		if !ok {
			return fmt.Errorf("ticket for %q: %w", st.CustomerName, domain.ErrNotFound)
		}
		t := st.Ticket
		t.ID = int64(i + 1)
		t.CustomerID = id
		seededTickets = append(seededTickets, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = seeded
	s.tickets = seededTickets
	s.nextID = int64(len(seeded) + 1)
	return nil
}
