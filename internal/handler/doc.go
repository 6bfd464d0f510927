// Package handler implements the HTTP layer for the Aptify API.
//
// Handlers decode requests, resolve the caller from the request context,
// delegate to the service layer, and translate service errors into
// RFC 9457 Problem Details responses via MapServiceError. No business
// rules live here.
package handler
