package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

type customerModel struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,unique,nullzero"`
	Phone     string    `bun:"phone,nullzero"`
	City      string    `bun:"city,nullzero"`
	CreatedAt time.Time `bun:"created_at,nullzero"`
}

type ticketModel struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID          int64     `bun:"id,pk,autoincrement"`
	CustomerID  int64     `bun:"customer_id"`
	Subject     string    `bun:"subject,nullzero"`
	Description string    `bun:"description,nullzero"`
	Status      string    `bun:"status,nullzero"`
	CreatedAt   time.Time `bun:"created_at,nullzero"`
}

func newCustomerModel(c domain.Customer) *customerModel {
	return &customerModel{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		City:      c.City,
		CreatedAt: c.CreatedAt,
	}
}

func (m *customerModel) toDomain() domain.Customer {
	return domain.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		City:      m.City,
		CreatedAt: utc(m.CreatedAt),
	}
}

func newTicketModel(customerID int64, t domain.Ticket) *ticketModel {
	return &ticketModel{
		CustomerID:  customerID,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *ticketModel) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Subject:     m.Subject,
		Description: m.Description,
		Status:      m.Status,
		CreatedAt:   utc(m.CreatedAt),
	}
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
