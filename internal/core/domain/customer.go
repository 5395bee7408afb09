package domain

import "time"

// Customer is a row of the customers table.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	City      string
	CreatedAt time.Time
}

// Ticket is a support ticket raised by a customer.
type Ticket struct {
	ID          int64
	CustomerID  int64
	Subject     string
	Description string
	Status      string
	CreatedAt   time.Time
}
