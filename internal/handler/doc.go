// Package handler provides HTTP request handlers for the GameVault API.
//
// GameHandler exposes the game service under /v1/games and HealthHandler
// reports on the store and cache under /health. Routes use the Go 1.22
// ServeMux method and wildcard patterns; path values are read with
// r.PathValue.
//
// # Response Format
//
//   - WriteData: single resource wrapped as {"data": ...}
//   - WriteJSON: raw JSON response, used for the paginated game list
//   - WriteError: RFC 9457 Problem Details error response
//
// # Error Mapping
//
// MapServiceError turns service errors into Problem Details:
//
//	ErrGameNotFound           -> 404
//	NameConflictError         -> 409
//	validation ProblemDetails -> 422
//	ErrStoreFailure           -> 500 (database code)
//	anything else             -> 500
//
// Server-side failures are logged with the request ID before the response
// is written.
package handler
