// Package helpers provides test utility functions for the GameVault API.
//
// # Requests
//
// Build and serve a request against any handler:
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/v1/games").
//	    WithBody(map[string]any{"name": "Chess"}).
//	    Do(mux)
//
// # Assertions
//
//	helpers.AssertStatus(t, rr, http.StatusCreated)
//	helpers.AssertProblemDetails(t, rr, http.StatusConflict, model.ErrCodeAlreadyExists)
//	helpers.AssertValidationError(t, rr, "name")
package helpers
