// Package domain defines the core business entities for supportdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Route: Which agent answers a question
//   - Chunk: A slice of policy text prepared for retrieval
//   - RetrievedChunk: A chunk returned by similarity search
//   - Customer and Ticket: Rows of the customer support store
//   - AppSettings: Provider and backend selection resolved at startup
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
