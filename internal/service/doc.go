// Package service implements the business logic layer for the Aptify API.
//
// The service package contains the request lifecycle engine, validation
// rules, and orchestration of repository operations. Services are the
// primary abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Side Effects
//
// The lifecycle engine treats channel provisioning and notification
// fan-out as best-effort: they run only after the primary document write
// has committed, and their failures are logged rather than surfaced to
// the caller. A request is never lost or rolled back because a
// notification could not be delivered.
package service
