package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrInvalidJSON is returned when a body is not a single JSON document.
var ErrInvalidJSON = errors.New("invalid json")

// FieldTypeError reports a JSON value of the wrong type for a field.
type FieldTypeError struct {
	Field string
}

func (e *FieldTypeError) Error() string { return "invalid value for field " + e.Field }

// DecodeJSON reads the request body into dst. Unknown fields are ignored.
// An empty body decodes to the zero value.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &FieldTypeError{Field: typeErr.Field}
		}
		return ErrInvalidJSON
	}
	if dec.More() {
		return ErrInvalidJSON
	}
	return nil
}
