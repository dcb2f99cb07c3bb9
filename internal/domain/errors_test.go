package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrProductNotFound, "NotFound"},
		{ErrCategoryNotFound, "NotFound"},
		{ErrAdminNotFound, "NotFound"},
		{ErrCategoryAlreadyExists, "Conflict"},
		{ErrCategoryInUse, "Conflict"},
		{ErrAdminAlreadyExists, "Conflict"},
		{ErrUnknownCategory, "ReferenceNotFound"},
		{ErrInvalidCredentials, "InvalidCredentials"},
		{NewValidationError("name", "This field is required"), "ValidationError"},
		{fmt.Errorf("failed to update: %w", ErrOfferNotFound), "NotFound"},
		{errors.New("connection refused"), "Internal"},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntityErrorsWrapOneKind(t *testing.T) {
	kinds := []error{ErrNotFound, ErrConflict, ErrReferenceNotFound, ErrInvalidCredentials, ErrValidation}

	for _, err := range []error{
		ErrCategoryNotFound, ErrCategoryAlreadyExists, ErrCategoryInUse, ErrProductNotFound,
		ErrUnknownCategory, ErrAdNotFound, ErrOfferNotFound, ErrAdminNotFound, ErrAdminAlreadyExists,
	} {
		matched := 0
		for _, kind := range kinds {
			if errors.Is(err, kind) {
				matched++
			}
		}
		if matched != 1 {
			t.Errorf("%q matches %d kinds, want 1", err, matched)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "This field is required"},
		{Field: "price", Message: "Value must be greater than or equal to 0"},
	}}

	want := "validation failed: name: This field is required; price: Value must be greater than or equal to 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should wrap ErrValidation")
	}
	if (&ValidationError{}).Error() != ErrValidation.Error() {
		t.Error("empty ValidationError should use the kind message")
	}
}
