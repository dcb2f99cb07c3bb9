package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stationery-catalog/internal/domain"
)

// maxBodyBytes bounds request bodies accepted by DecodeJSON
const maxBodyBytes = 1 << 20

// DecodeJSON decodes a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected with a *domain.ValidationError.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return decodeError(err)
	}
	if decoder.More() {
		return domain.NewValidationError("body", "Request body must contain a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("body", "Request body is empty")
	case errors.As(err, &syntaxErr):
		return domain.NewValidationError("body", fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		return domain.NewValidationError(typeErr.Field, "Invalid type, expected "+typeErr.Type.String())
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return domain.NewValidationError(field, "Unknown field")
	default:
		return domain.NewValidationError("body", "Invalid request body")
	}
}
