// Package tui provides an interactive terminal chat for supportdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Router answers each question through exactly one agent.
	Router driving.Router
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(router driving.Router) *Ports {
	return &Ports{Router: router}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Router == nil {
		return ErrMissingRouter
	}
	return nil
}
