package handler

import (
	"errors"
	"strconv"

	"github.com/forgo/gamevault/api/internal/model"
	"github.com/forgo/gamevault/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling so every game endpoint answers the same
// failure with the same status code and body.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var conflict *service.NameConflictError
	var problem *model.ProblemDetails

	switch {
	// ===== Validation Errors → 422 (already shaped by the service) =====
	case errors.As(err, &problem):
		return problem

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrGameNotFound):
		return model.NewNotFoundError("game")

	// ===== Conflict Errors → 409 =====
	case errors.As(err, &conflict):
		return model.NewConflictError("a game named " + strconv.Quote(conflict.Name) + " already exists")
	case errors.Is(err, service.ErrGameNameTaken):
		return model.NewConflictError(err.Error())

	// ===== Store Failures → 500 =====
	case errors.Is(err, service.ErrStoreFailure):
		return model.NewStoreError("")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 && pd.Code == model.ErrCodeInternal {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
