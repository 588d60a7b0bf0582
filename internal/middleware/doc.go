// Package middleware provides HTTP middleware for the game catalog API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a 500 problem response
//   - CORS: origin allow-list and preflight handling
//   - Metrics: per-route request counts and latency
//
// Middleware is composed with Chain, outermost first. Metrics reads the
// matched mux pattern, so it goes last, directly around the ServeMux:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	    middleware.CORS(cfg.Server.AllowedOrigins),
//	    middleware.Metrics(recorder),
//	)
package middleware
