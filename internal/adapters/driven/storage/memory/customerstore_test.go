package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
)

func seededStore(t *testing.T) *CustomerStore {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewCustomerStore()
	err := store.Seed(context.Background(),
		[]domain.Customer{
			{Name: "Ema Ali", Email: "ema@example.com", CreatedAt: now.AddDate(0, 0, -120)},
			{Name: "John Smith", Email: "john.smith@example.com", CreatedAt: now.AddDate(0, 0, -90)},
		},
		[]driven.SeedTicket{
			{CustomerName: "Ema Ali", Ticket: domain.Ticket{Subject: "Refund request", CreatedAt: now.AddDate(0, 0, -15)}},
			{CustomerName: "Ema Ali", Ticket: domain.Ticket{Subject: "Delivery issue", CreatedAt: now.AddDate(0, 0, -3)}},
			{CustomerName: "John Smith", Ticket: domain.Ticket{Subject: "Warranty claim", CreatedAt: now.AddDate(0, 0, -7)}},
		})
	require.NoError(t, err)
	return store
}

func TestNewCustomerStore(t *testing.T) {
	store := NewCustomerStore()
	require.NotNil(t, store)
	customers, err := store.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCustomerStore_FindCustomerByName_CaseInsensitive(t *testing.T) {
	store := seededStore(t)

	c, err := store.FindCustomerByName(context.Background(), "ema")
	require.NoError(t, err)
	assert.Equal(t, "Ema Ali", c.Name)
	assert.Equal(t, int64(1), c.ID)
}

func TestCustomerStore_FindCustomerByName_NotFound(t *testing.T) {
	store := seededStore(t)

	_, err := store.FindCustomerByName(context.Background(), "sara")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerStore_ListTickets_NewestFirst(t *testing.T) {
	store := seededStore(t)

	tickets, err := store.ListTickets(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "Delivery issue", tickets[0].Subject)
	assert.Equal(t, "Refund request", tickets[1].Subject)
}

func TestCustomerStore_ListTickets_Limit(t *testing.T) {
	store := seededStore(t)

	tickets, err := store.ListTickets(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Delivery issue", tickets[0].Subject)
}

func TestCustomerStore_ListTickets_UnknownCustomer(t *testing.T) {
	store := seededStore(t)

	tickets, err := store.ListTickets(context.Background(), 42, 0)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestCustomerStore_Seed_ReplacesContents(t *testing.T) {
	store := seededStore(t)

	err := store.Seed(context.Background(), []domain.Customer{{Name: "Sara Khan"}}, nil)
	require.NoError(t, err)

	customers, err := store.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Sara Khan", customers[0].Name)
	assert.Equal(t, int64(1), customers[0].ID)
}

func TestCustomerStore_Seed_UnknownCustomerName(t *testing.T) {
	store := NewCustomerStore()

	err := store.Seed(context.Background(), nil, []driven.SeedTicket{{CustomerName: "Nobody"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerStore_Seed_UnknownCustomerLeavesStoreUnchanged(t *testing.T) {
	store := seededStore(t)

	err := store.Seed(context.Background(),
		[]domain.Customer{{Name: "Sara Khan"}},
		[]driven.SeedTicket{
			{CustomerName: "Sara Khan", Ticket: domain.Ticket{Subject: "Cancellation"}},
			{CustomerName: "Nobody", Ticket: domain.Ticket{Subject: "Orphan"}},
		})
	require.ErrorIs(t, err, domain.ErrNotFound)

	customers, err := store.ListCustomers(context.Background())
	require.NoError(t, err)
	var names []string
	for _, c := range customers {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ema Ali", "John Smith"}, names)

	ema, err := store.FindCustomerByName(context.Background(), "ema")
	require.NoError(t, err)
	tickets, err := store.ListTickets(context.Background(), ema.ID, 0)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestCustomerStore_ListTickets_TiesNewestIDFirst(t *testing.T) {
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	store := NewCustomerStore()
	err := store.Seed(context.Background(),
		[]domain.Customer{{Name: "Ema Ali"}},
		[]driven.SeedTicket{
			{CustomerName: "Ema Ali", Ticket: domain.Ticket{Subject: "first", CreatedAt: at}},
			{CustomerName: "Ema Ali", Ticket: domain.Ticket{Subject: "second", CreatedAt: at}},
			{CustomerName: "Ema Ali", Ticket: domain.Ticket{Subject: "third", CreatedAt: at}},
		})
	require.NoError(t, err)

	tickets, err := store.ListTickets(context.Background(), 1, 0)
	require.NoError(t, err)

	var subjects []string
	for _, tk := range tickets {
		subjects = append(subjects, tk.Subject)
	}
	assert.Equal(t, []string{"third", "second", "first"}, subjects)

	latest, err := store.ListTickets(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "third", latest[0].Subject)
}

func TestCustomerStore_Concurrency_ReadWhileAdding(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.AddTicket(domain.Ticket{CustomerID: 2, Subject: "Follow up"})
		}()
		go func() {
			defer wg.Done()
			_, err := store.ListTickets(ctx, 2, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tickets, err := store.ListTickets(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, tickets, 21)
}
