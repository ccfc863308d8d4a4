// Package middleware provides HTTP middleware for the job board API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a problem details 500
//   - CORS: origin allow-list and preflight handling
//   - Auth: bearer token validation through an authz.Gate
//   - RateLimit: token bucket per user or client IP
//   - Idempotency: replays responses for retried POST and PUT requests
//
// Middlewares compose with Chain, outermost first:
//
//	h := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.CORS(origins),
//	)
//
// # Context Values
//
// Auth stores the caller with authz.WithIdentity; handlers read it back with
// authz.FromContext. GetRequestID returns the request identifier.
package middleware
