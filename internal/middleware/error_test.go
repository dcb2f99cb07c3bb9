package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stationery-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func TestProperty_ErrorsHaveConsistentStructure(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all error responses have consistent structure", prop.ForAll(
		func(message string, statusCode int) bool {
			w := httptest.NewRecorder()
			RespondWithError(w, statusCode, message)

			if w.Code != statusCode {
				return false
			}
			if w.Header().Get("Content-Type") != "application/json" {
				return false
			}

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				return false
			}

			if response.Error.Code != http.StatusText(statusCode) || response.Error.Message != message {
				return false
			}
			_, err := time.Parse(time.RFC3339, response.Error.Timestamp)
			return err == nil
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.OneConstOf(
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusServiceUnavailable,
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondWithDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"not found", domain.ErrProductNotFound, http.StatusNotFound, "NotFound"},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrCategoryNotFound), http.StatusNotFound, "NotFound"},
		{"conflict", domain.ErrCategoryAlreadyExists, http.StatusConflict, "Conflict"},
		{"category in use", domain.ErrCategoryInUse, http.StatusConflict, "Conflict"},
		{"reference not found", domain.ErrUnknownCategory, http.StatusBadRequest, "ReferenceNotFound"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
		{"validation", domain.NewValidationError("name", "This field is required"), http.StatusBadRequest, "ValidationError"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondWithDomainError(w, zap.NewNop(), tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Error.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, response.Error.Kind)
			}
		})
	}
}

func TestInternalErrorMessageIsHidden(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithDomainError(w, zap.NewNop(), errors.New("pq: password authentication failed"))

	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", response.Error.Message)
	}
}

func TestValidationErrorsListFields(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, []domain.FieldError{
		{Field: "name", Message: "This field is required"},
		{Field: "price", Message: "This field is required"},
	})

	var response struct {
		Error struct {
			Details struct {
				ValidationErrors []domain.FieldError `json:"validation_errors"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Error.Details.ValidationErrors) != 2 {
		t.Errorf("expected 2 field errors, got %v", response.Error.Details.ValidationErrors)
	}
}

func TestErrorHandlingMiddlewareRecoversPanics(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	var response ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("expected structured error body: %v", err)
	}
}
