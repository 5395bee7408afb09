package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Ensure CustomerService implements the interface.
var (
	_ driving.CustomerAgent     = (*CustomerService)(nil)
	_ driving.CustomerDirectory = (*CustomerService)(nil)
)

// KnownCustomers is the allow-list of names the agent recognises, in match order.
var KnownCustomers = []string{"ema", "ema ali", "john", "sara"}

// Intent keyword groups. They are independent; several may match at once.
var (
	ProfileKeywords = []string{"profile", "details", "overview", "info"}
	TicketKeywords  = []string{"ticket", "tickets", "support", "issue", "history"}
	LatestKeywords  = []string{"latest", "most recent", "last ticket", "recent ticket"}
)

// SpecifyCustomerMessage is returned when no known customer is named.
const SpecifyCustomerMessage = "Please specify a customer name (e.g., 'Ema Ali')."

// summaryMaxTokens bounds the generated customer summary.
const summaryMaxTokens = 256

// defaultCustomerSummaryPrompt is the fallback prompt when no PromptStore is configured.
const defaultCustomerSummaryPrompt = `You are a helpful customer support assistant.
Summarize the information below in a short, structured format.
Use bullet points. Keep it under 10 lines.

` + driven.PlaceholderCustomerData

// CustomerService answers customer and ticket questions from the customer store.
type CustomerService struct {
	store       driven.CustomerStore
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewCustomerService creates a new customer agent.
func NewCustomerService(store driven.CustomerStore, llm driven.LLMService) *CustomerService {
	return &CustomerService{
		store: store,
		llm:   llm,
	}
}

// SetPromptStore sets the prompt store for loading the summary prompt.
// If not set, the service uses the built-in prompt.
func (s *CustomerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// customerIntent records which keyword groups matched.
type customerIntent struct {
	profile bool
	tickets bool
	latest  bool
}

// neither reports whether the question asked for neither profile nor tickets.
// In that case both are returned.
func (i customerIntent) neither() bool {
	return !i.profile && !i.tickets
}

func classifyIntent(q string) customerIntent {
	return customerIntent{
		profile: containsAny(q, ProfileKeywords),
		tickets: containsAny(q, TicketKeywords),
		latest:  containsAny(q, LatestKeywords),
	}
}

// ResolveCustomerName returns the first allow-listed name contained in the
// lowercased question, or "" if none is.
func ResolveCustomerName(question string) string {
	q := strings.ToLower(question)
	for _, name := range KnownCustomers {
		if strings.Contains(q, name) {
			return name
		}
	}
	return ""
}

// Answer resolves the customer, fetches the requested rows and asks the
// text model for a short summary. The model output is returned verbatim.
func (s *CustomerService) Answer(ctx context.Context, question string) (string, error) {
	logger.Section("Customer Lookup")

	target := ResolveCustomerName(question)
	if target == "" {
		logger.Debug("No known customer named in question")
		return SpecifyCustomerMessage, nil
	}

	intent := classifyIntent(strings.ToLower(question))
	logger.Debug("Target: %q, intent: profile=%t tickets=%t latest=%t",
		target, intent.profile, intent.tickets, intent.latest)

	customer, err := s.store.FindCustomerByName(ctx, target)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("No customer found matching '%s'.", target), nil
	}
	if err != nil {
		return "", fmt.Errorf("finding customer: %w", err)
	}

	var tickets []domain.Ticket
	if intent.tickets || intent.latest || intent.neither() {
		limit := 0
		if intent.latest {
			limit = 1
		}
		tickets, err = s.store.ListTickets(ctx, customer.ID, limit)
		if err != nil {
			return "", fmt.Errorf("listing tickets: %w", err)
		}
	}
	logger.Debug("Fetched %d tickets for customer %d", len(tickets), customer.ID)

	raw := BuildCustomerBlock(customer, tickets, intent.profile || intent.neither())
	prompt := s.renderPrompt(raw)

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: summaryMaxTokens})
	if err != nil {
		return "", fmt.Errorf("summarising customer: %w", err)
	}
	return answer, nil
}

// ListCustomers returns every customer ordered by name.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return customers, nil
}

// CustomerTickets looks up a customer by partial name and returns all of
// their tickets.
func (s *CustomerService) CustomerTickets(ctx context.Context, name string) (*domain.Customer, []domain.Ticket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}

	customer, err := s.store.FindCustomerByName(ctx, strings.ToLower(name))
	if err != nil {
		return nil, nil, err
	}

	tickets, err := s.store.ListTickets(ctx, customer.ID, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("listing tickets: %w", err)
	}
	return customer, tickets, nil
}

// BuildCustomerBlock renders the raw text handed to the summary prompt:
// the profile (when requested) followed by one line per ticket.
func BuildCustomerBlock(c *domain.Customer, tickets []domain.Ticket, withProfile bool) string {
	var parts []string

	if withProfile {
		var b strings.Builder
		b.WriteString("Customer:\n")
		fmt.Fprintf(&b, "- Name: %s\n", c.Name)
		fmt.Fprintf(&b, "- Email: %s\n", c.Email)
		fmt.Fprintf(&b, "- Phone: %s\n", c.Phone)
		fmt.Fprintf(&b, "- City: %s\n", c.City)
		fmt.Fprintf(&b, "- Created At: %s\n", formatTime(c.CreatedAt))
		parts = append(parts, b.String())
	}

	if len(tickets) > 0 {
		lines := make([]string, 0, len(tickets))
		for _, t := range tickets {
			lines = append(lines, fmt.Sprintf("- %s | %s | %s | %s",
				t.Subject, t.Status, formatTime(t.CreatedAt), t.Description))
		}
		parts = append(parts, "Tickets:\n"+strings.Join(lines, "\n"))
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// renderPrompt fills the summary template with the raw block.
func (s *CustomerService) renderPrompt(raw string) string {
	template := defaultCustomerSummaryPrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptCustomerSummary); err == nil && p != "" {
			template = p
		}
	}

	if !strings.Contains(template, driven.PlaceholderCustomerData) {
		return template + "\n\n" + raw
	}
	return strings.ReplaceAll(template, driven.PlaceholderCustomerData, raw)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
