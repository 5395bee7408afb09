// Package mcp provides an MCP (Model Context Protocol) server adapter for supportdesk.
// It lets AI assistants query the policy and customer agents directly,
// without going through the keyword router.
package mcp

import "errors"

var (
	// ErrMissingPolicyAgent is returned when the policy agent is not provided.
	ErrMissingPolicyAgent = errors.New("mcp: policy agent is required")

	// ErrMissingCustomerAgent is returned when the customer agent is not provided.
	ErrMissingCustomerAgent = errors.New("mcp: customer agent is required")
)
