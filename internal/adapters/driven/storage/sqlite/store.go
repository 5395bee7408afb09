package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/supportdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.CustomerStore  = (*Store)(nil)
	_ driven.CustomerSeeder = (*Store)(nil)
)

// timeLayout is the fixed-width UTC layout of created_at columns.
const timeLayout = "2006-01-02T15:04:05Z"

// Store is the SQLite customer store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database file at path and runs
// pending migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path: %w", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", errors.Join(domain.ErrBackendUnavailable, err))
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", errors.Join(domain.ErrBackendUnavailable, err))
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// FindCustomerByName returns the lowest-id customer whose name contains name,
// ignoring case.
func (s *Store) FindCustomerByName(ctx context.Context, name string) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, city, created_at
		FROM customers
		WHERE LOWER(name) LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY id
		LIMIT 1
	`, escapeLike(strings.ToLower(name)))

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return c, nil
}

// ListTickets returns the customer's tickets, newest first.
func (s *Store) ListTickets(ctx context.Context, customerID int64, limit int) ([]domain.Ticket, error) {
	query := `
		SELECT id, customer_id, subject, description, status, created_at
		FROM tickets
		WHERE customer_id = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{customerID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var (
			t                            domain.Ticket
			subject, desc, status, stamp sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &subject, &desc, &status, &stamp); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.Subject = subject.String
		t.Description = desc.String
		t.Status = status.String
		t.CreatedAt = parseTime(stamp.String)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, city, created_at
		FROM customers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// Seed clears both tables and inserts the given rows in one transaction.
// Auto-increment counters are reset so seeded ids start at 1.
func (s *Store) Seed(ctx context.Context, customers []domain.Customer, tickets []driven.SeedTicket) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range []string{
		"DELETE FROM tickets",
		"DELETE FROM customers",
		"DELETE FROM sqlite_sequence WHERE name IN ('customers', 'tickets')",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	ids := make(map[string]int64, len(customers))
	for _, c := range customers {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO customers (name, email, phone, city, created_at) VALUES (?, ?, ?, ?, ?)",
			c.Name, c.Email, c.Phone, c.City, formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert customer %s: %w", c.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert customer %s: %w", c.Name, err)
		}
		ids[c.Name] = id
	}

	for _, st := range tickets {
		id, ok := ids[st.CustomerName]
		if !ok {
			return fmt.Errorf("ticket for %q: %w", st.CustomerName, domain.ErrNotFound)
		}
		t := st.Ticket
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tickets (customer_id, subject, description, status, created_at) VALUES (?, ?, ?, ?, ?)",
			id, t.Subject, t.Description, t.Status, formatTime(t.CreatedAt)); err != nil {
			return fmt.Errorf("insert ticket %s: %w", t.Subject, err)
		}
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (*domain.Customer, error) {
	var (
		c                         domain.Customer
		email, phone, city, stamp sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &city, &stamp); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.City = city.String
	c.CreatedAt = parseTime(stamp.String)
	return &c, nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by other tools may carry SQLite's default layout.
		t, err = time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}

// escapeLike escapes LIKE wildcards so name text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
