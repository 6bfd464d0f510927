package handler

import (
	"errors"

	"github.com/aptify/api/internal/model"
	"github.com/aptify/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring
// consistent HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrRequestNotFound):
		return model.NewNotFoundError("request")
	case errors.Is(err, service.ErrNotificationNotFound):
		return model.NewNotFoundError("notification")
	case errors.Is(err, service.ErrUnknownKind):
		return model.NewNotFoundError("request kind")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrProviderConflict),
		errors.Is(err, service.ErrIllegalTransition):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrProviderRequired):
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return model.NewValidationError(ve.Fields)
		}
		return model.NewValidationError([]model.FieldError{{Field: "payload", Message: err.Error()}})

	// ===== Store Errors → 503 =====
	case errors.Is(err, service.ErrStoreUnavailable):
		return model.NewStoreUnavailableError()

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
