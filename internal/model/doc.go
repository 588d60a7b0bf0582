// Package model defines domain entities and data structures for the game catalog API.
//
// The model package contains the Game entity, its request types, the
// pagination envelope, and error definitions. Models are used across all
// layers of the application.
//
// # JSON Serialization
//
// Entities use snake_case json tags; the pagination envelope keeps the
// camelCase keys clients already consume:
//
//	{"data": [...], "page": 1, "limit": 10, "totalPages": 1, "totalResults": 3}
//
// # Validation Constants
//
//	const (
//	    MaxGameNameLength = 100
//	    DefaultPageLimit  = 10
//	    MaxPageLimit      = 100
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type   string `json:"type"`
//	    Title  string `json:"title"`
//	    Status int    `json:"status"`
//	    Detail string `json:"detail,omitempty"`
//	}
package model
