package domain

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by the catalog service wraps exactly one of these.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrReferenceNotFound  = errors.New("referenced entity not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrValidation         = errors.New("validation failed")
)

var (
	ErrCategoryNotFound      = kindError(ErrNotFound, "category not found")
	ErrCategoryAlreadyExists = kindError(ErrConflict, "category with this name already exists")
	ErrCategoryInUse         = kindError(ErrConflict, "category still has products")
	ErrProductNotFound       = kindError(ErrNotFound, "product not found")
	ErrUnknownCategory       = kindError(ErrReferenceNotFound, "category not found")
	ErrAdNotFound            = kindError(ErrNotFound, "ad not found")
	ErrOfferNotFound         = kindError(ErrNotFound, "offer not found")
	ErrAdminNotFound         = kindError(ErrNotFound, "admin not found")
	ErrAdminAlreadyExists    = kindError(ErrConflict, "admin with this username already exists")
)

type kindErr struct {
	kind    error
	message string
}

func kindError(kind error, message string) error {
	return &kindErr{kind: kind, message: message}
}

func (e *kindErr) Error() string { return e.message }

func (e *kindErr) Unwrap() error { return e.kind }

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when an input is missing or malformed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Kind returns the stable name of the error kind wrapped by err, or "Internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrReferenceNotFound):
		return "ReferenceNotFound"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	default:
		return "Internal"
	}
}
