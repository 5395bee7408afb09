package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for supportdesk resources.
	uriScheme = "supportdesk://"
)

// customerInfo is the JSON shape of a customer resource entry.
type customerInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	CreatedAt string `json:"created_at"`
}

// ticketInfo is the JSON shape of a ticket resource entry.
type ticketInfo struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "customers",
		Name:        "customers",
		Description: "All customers known to the support desk",
		MIMEType:    "application/json",
	}, s.handleCustomersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "customers/{name}/tickets",
		Name:        "customer-tickets",
		Description: "Tickets raised by a customer, newest first",
		MIMEType:    "application/json",
	}, s.handleTicketsResource)
}

// handleCustomersResource returns a list of all customers.
func (s *Server) handleCustomersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Directory == nil {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}

	customers, err := s.ports.Directory.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	infos := make([]customerInfo, len(customers))
	for i := range customers {
		infos[i] = toCustomerInfo(&customers[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling customers: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleTicketsResource returns the tickets of one customer.
func (s *Server) handleTicketsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Directory == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	name := extractCustomerName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	customer, tickets, err := s.ports.Directory.CustomerTickets(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}

	out := struct {
		Customer customerInfo `json:"customer"`
		Tickets  []ticketInfo `json:"tickets"`
	}{
		Customer: toCustomerInfo(customer),
		Tickets:  make([]ticketInfo, len(tickets)),
	}
	for i, t := range tickets {
		out.Tickets[i] = ticketInfo{
			ID:          t.ID,
			Subject:     t.Subject,
			Description: t.Description,
			Status:      t.Status,
			CreatedAt:   formatTime(t.CreatedAt),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tickets: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

func toCustomerInfo(c *domain.Customer) customerInfo {
	return customerInfo{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		City:      c.City,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// extractCustomerName extracts the name from a URI like
// supportdesk://customers/{name}/tickets. The name may be percent-encoded.
func extractCustomerName(uri string) string {
	const prefix = uriScheme + "customers/"
	const suffix = "/tickets"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if raw == "" || strings.Contains(raw, "/") {
		return ""
	}

	name, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return name
}
