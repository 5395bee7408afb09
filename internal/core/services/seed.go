package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure SeedService implements the interface.
var _ driving.SeedService = (*SeedService)(nil)

// SeedService writes the demo dataset through a CustomerSeeder.
type SeedService struct {
	seeder driven.CustomerSeeder
	now    func() time.Time
}

// NewSeedService creates a seed service that stamps rows relative to the
// current time.
func NewSeedService(seeder driven.CustomerSeeder) *SeedService {
	return &SeedService{seeder: seeder, now: time.Now}
}

// Seed clears the store and inserts the demo dataset.
func (s *SeedService) Seed(ctx context.Context) (driving.SeedResult, error) {
	customers, tickets := DemoData(s.now())
	if err := s.seeder.Seed(ctx, customers, tickets); err != nil {
		return driving.SeedResult{}, fmt.Errorf("seed customers: %w", err)
	}
	logger.Info("seeded %d customers and %d tickets", len(customers), len(tickets))
	return driving.SeedResult{Customers: len(customers), Tickets: len(tickets)}, nil
}

// DemoData returns three customers and four tickets dated relative to now.
func DemoData(now time.Time) ([]domain.Customer, []driven.SeedTicket) {
	now = now.UTC().Truncate(time.Second)
	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	customers := []domain.Customer{
		{Name: "Ema Ali", Email: "ema@example.com", Phone: "+1-555-0101", City: "Toronto", CreatedAt: daysAgo(120)},
		{Name: "John Smith", Email: "john.smith@example.com", Phone: "+1-555-0102", City: "Vancouver", CreatedAt: daysAgo(90)},
		{Name: "Sara Khan", Email: "sara.khan@example.com", Phone: "+1-555-0103", City: "Calgary", CreatedAt: daysAgo(60)},
	}

	tickets := []driven.SeedTicket{
		{CustomerName: "Ema Ali", Ticket: domain.Ticket{
			Subject:     "Refund request",
			Description: "Customer asked about refund eligibility and timelines.",
			Status:      "Closed",
			CreatedAt:   daysAgo(15),
		}},
		{CustomerName: "Ema Ali", Ticket: domain.Ticket{
			Subject:     "Delivery issue",
			Description: "Package delayed; requested shipping estimate update.",
			Status:      "Open",
			CreatedAt:   daysAgo(3),
		}},
		{CustomerName: "John Smith", Ticket: domain.Ticket{
			Subject:     "Warranty claim",
			Description: "Reported manufacturing defect and asked about warranty coverage.",
			Status:      "Open",
			CreatedAt:   daysAgo(7),
		}},
		{CustomerName: "Sara Khan", Ticket: domain.Ticket{
			Subject:     "Account access",
			Description: "Cannot login; password reset not working.",
			Status:      "Closed",
			CreatedAt:   daysAgo(20),
		}},
	}

	return customers, tickets
}
