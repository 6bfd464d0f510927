// Package middleware provides HTTP middleware for the Aptify API.
//
// Middleware is composed with Chain, which applies wrappers in order so
// the first middleware listed is the outermost:
//
//	handler := middleware.Chain(mux,
//	    middleware.Recovery,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Identity,
//	)
//
// Identity resolves the caller from the X-User-ID header; there is no
// credential verification in this service, the header is trusted from the
// gateway in front of it.
package middleware
