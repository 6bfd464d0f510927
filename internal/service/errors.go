package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aptify/api/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Lifecycle Errors =====
var (
	ErrUnknownKind       = errors.New("unknown request kind")
	ErrRequestNotFound   = errors.New("request not found")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrProviderConflict  = errors.New("request already assigned to another provider")
	ErrStoreUnavailable  = errors.New("document store unavailable")
)

// ===== Validation Errors =====
var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidItem      = errors.New("invalid line item")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrProviderRequired = errors.New("provider_id is required to accept")
)

// ===== Notification Errors =====
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError carries per-field detail alongside a validation sentinel
// so handlers can report every offending field, not just the first.
type ValidationError struct {
	Sentinel error
	Fields   []model.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Sentinel.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%s: %s", e.Sentinel.Error(), strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Sentinel
}

func missingFieldsError(fields []string) error {
	errs := make([]model.FieldError, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, model.FieldError{Field: f, Message: f + " is required"})
	}
	return &ValidationError{Sentinel: ErrMissingField, Fields: errs}
}
