package mcp

import (
	"net/http"

	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Policy answers questions from indexed policy documents.
	Policy driving.PolicyAgent

	// Customer answers questions about customers and tickets.
	Customer driving.CustomerAgent

	// Directory backs the customer resources. Optional.
	Directory driving.CustomerDirectory

	// Metrics is mounted at /metrics when serving over HTTP. Optional.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Policy == nil {
		return ErrMissingPolicyAgent
	}
	if p.Customer == nil {
		return ErrMissingCustomerAgent
	}
	return nil
}
