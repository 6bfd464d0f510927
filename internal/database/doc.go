// Package database provides the document store abstraction for the Aptify API.
//
// This package defines the Database interface that abstracts SurrealDB
// operations, keeping business logic independent of data access.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns multiple results (for SELECT queries returning lists)
//   - QueryOne: Returns a single result (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// Every mutation issued through this package targets a single document.
// Request lifecycle writes rely on that: the primary record is committed in
// one whole-document write, and side effects (notifications, channel
// provisioning) are issued only after the write returns. No transaction
// spans the primary record and its side effects.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database
