package middleware

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"stationery-catalog/internal/domain"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"valid object", `{"name":"Pens","icon":"pencil"}`, ""},
		{"unknown field", `{"name":"Pens","colour":"red"}`, "colour"},
		{"empty body", ``, "body"},
		{"malformed", `{"name":`, "body"},
		{"wrong type", `{"name":42}`, "name"},
		{"trailing object", `{"name":"Pens"}{"name":"Bags"}`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/categories", strings.NewReader(tt.body))

			var input domain.CreateCategoryInput
			err := DecodeJSON(req, &input)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("DecodeJSON() error = %v", err)
				}
				if input.Name != "Pens" || input.Icon == nil || *input.Icon != "pencil" {
					t.Errorf("unexpected input: %+v", input)
				}
				return
			}

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Fields[0].Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, validationErr.Fields[0].Field)
			}
		})
	}
}

func TestDecodeJSONDistinguishesNullFromAbsent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		wantNil bool
	}{
		{"absent", `{"price":3}`, false, true},
		{"null", `{"image":null}`, true, true},
		{"value", `{"image":"pen.png"}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/api/products/1", strings.NewReader(tt.body))

			var input domain.UpdateProductInput
			if err := DecodeJSON(req, &input); err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if input.Image.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", input.Image.Set, tt.wantSet)
			}
			if (input.Image.Value == nil) != tt.wantNil {
				t.Errorf("Value = %v, want nil %v", input.Image.Value, tt.wantNil)
			}
		})
	}
}
