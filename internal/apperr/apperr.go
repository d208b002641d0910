// Package apperr defines the request-level error taxonomy of the API.
//
// Services return *Error values; handlers render them with the status code
// returned by Code.HTTPStatus. Anything that is not an *Error is an internal
// failure and is rendered as a 500 without its message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code sent to clients.
type Code string

const (
	CodeAuthenticationRequired Code = "authentication_required"
	CodeAuthenticationFailed   Code = "authentication_failed"
	CodeValidation             Code = "validation_failed"
	CodeNotFound               Code = "not_found"
	CodeMethodNotAllowed       Code = "method_not_allowed"
	CodeForbidden              Code = "forbidden"
	CodeInternal               Code = "internal_error"
)

// HTTPStatus returns the status code for an error code.
// Failed authentication at token issuance is a 400, not a 401.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeAuthenticationRequired:
		return http.StatusUnauthorized
	case CodeAuthenticationFailed, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message and optional details.
type Error struct {
	Code    Code
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// Sentinels for errors.Is comparisons.
var (
	ErrAuthenticationRequired = &Error{Code: CodeAuthenticationRequired, Message: "authentication credentials were not provided or are invalid"}
	ErrAuthenticationFailed   = &Error{Code: CodeAuthenticationFailed, Message: "unable to authenticate with provided credentials"}
	ErrValidation             = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "not found"}
	ErrMethodNotAllowed       = &Error{Code: CodeMethodNotAllowed, Message: "method not allowed"}
	ErrForbidden              = &Error{Code: CodeForbidden, Message: "you do not have permission to perform this action"}
)

// Validation returns a validation error carrying a field→message map.
func Validation(details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: ErrValidation.Message, Details: details}
}

// Field is shorthand for a validation error on a single field.
func Field(field, message string) *Error {
	return Validation(map[string]string{field: message})
}

// NotFound returns a not-found error naming the missing resource.
func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

// Wrap attaches an underlying cause to an error code.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
