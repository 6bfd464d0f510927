// Package repository implements the data access layer for the Aptify API.
//
// The repository package contains all document store operations using
// SurrealDB. Each repository struct handles CRUD operations for a specific
// domain entity; RequestRepository is instantiated once per request kind
// with the kind's collection name, so the five kinds share one
// implementation.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for store-assigned timestamps
//
// Point lookups that miss return (nil, nil); the service layer maps that to
// its not-found error. List queries that match nothing return empty slices,
// never errors.
package repository
