// Package model defines domain entities and data structures for the Aptify API.
//
// The model package contains all struct definitions for domain objects,
// request/response payloads, and error definitions. Models are used across
// all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - Request: A service request of one of five kinds (order, renovation,
//     construction, rental, buy_sell), all sharing one document shape and
//     one lifecycle state machine
//   - Notification: An addressed message persisted for a recipient
//   - Channel: A communication thread linking exactly two parties
//   - Provider: A registered service provider eligible for open requests
//
// # Kind Registry
//
// Each request kind is described by a KindConfig (collection name, human-id
// prefix, initial status, transition graph, validation shape). The lifecycle
// engine is parameterized by KindConfig rather than duplicated per kind:
//
//	cfg, ok := model.ConfigForKind(model.KindOrder)
//	if cfg.CanTransition(model.StatusPending, model.StatusAccepted) { ... }
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go and written by
// the handler layer.
package model
