package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.CustomerStore  = (*Store)(nil)
	_ driven.CustomerSeeder = (*Store)(nil)
)

// Store is the Postgres customer store.
type Store struct {
	db *bun.DB
}

// NewStore connects to dsn and creates the tables if they do not exist.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn: %w", domain.ErrInvalidInput)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", errors.Join(domain.ErrBackendUnavailable, err))
	}

	s := &Store{db: db}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// NewStoreFromDB wraps an existing bun handle. The schema is not touched.
func NewStoreFromDB(db *bun.DB) *Store {
	return &Store{db: db}
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*customerModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("customers table: %w", err)
	}
	if _, err := s.db.NewCreateTable().
		Model((*ticketModel)(nil)).
		IfNotExists().
		ForeignKey(`("customer_id") REFERENCES "customers" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("tickets table: %w", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*ticketModel)(nil)).
		Index("idx_tickets_customer_created").
		IfNotExists().
		Column("customer_id", "created_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("tickets index: %w", err)
	}
	return nil
}

// FindCustomerByName returns the lowest-id customer whose name contains name,
// ignoring case.
func (s *Store) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	var m customerModel
	err := s.db.NewSelect().
		Model(&m).
		Where("c.name ILIKE ?", "%"+escapeLike(name)+"%").
		Order("c.id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	c := m.toDomain()
	return &c, nil
}

// ListTickets returns the customer's tickets, newest first.
func (s *Store) ListTickets(ctx context.Context, customerID int64, limit int) ([]domain.Ticket, error) {
	var models []ticketModel
	q := s.db.NewSelect().
		Model(&models).
		Where("t.customer_id = ?", customerID).
		Order("t.created_at DESC", "t.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(models))
	for i := range models {
		tickets = append(tickets, models[i].toDomain())
	}
	return tickets, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var models []customerModel
	if err := s.db.NewSelect().
		Model(&models).
		Order("c.name ASC", "c.id ASC").
		Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(models))
	for i := range models {
		customers = append(customers, models[i].toDomain())
	}
	return customers, nil
}

// Seed truncates both tables, restarting their identities, and inserts the
// given rows in one transaction.
func (s *Store) Seed(ctx context.Context, customers []domain.Customer, tickets []driven.SeedTicket) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE tickets, customers RESTART IDENTITY"); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}

		ids := make(map[string]int64, len(customers))
		for _, c := range customers {
			m := newCustomerModel(c)
			if _, err := tx.NewInsert().Model(m).Exec(ctx); err != nil {
				return fmt.Errorf("insert customer %s: %w", c.Name, err)
			}
			ids[c.Name] = m.ID
		}

		for _, st := range tickets {
			id, ok := ids[st.CustomerName]
			if !ok {
				return fmt.Errorf("ticket for %q: %w", st.CustomerName, domain.ErrNotFound)
			}
			if _, err := tx.NewInsert().Model(newTicketModel(id, st.Ticket)).Exec(ctx); err != nil {
				return fmt.Errorf("insert ticket %s: %w", st.Ticket.Subject, err)
			}
		}
		return nil
	})
}

// escapeLike escapes ILIKE wildcards so name text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
