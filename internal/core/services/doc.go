// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The router classifies a question and hands it to either the policy
// agent (PDF retrieval) or the customer agent (SQL lookup plus a short
// generated summary). Services are synchronous and start no goroutines.
package services
