package driving

import "context"

// SeedService loads demo customers and tickets into the customer store.
type SeedService interface {
	// Seed replaces all customer and ticket rows and reports how many of
	// each were inserted.
	Seed(ctx context.Context) (SeedResult, error)
}

// SeedResult reports the rows written by a seed run.
type SeedResult struct {
	Customers int
	Tickets   int
}
