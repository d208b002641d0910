package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
)

// Authorizer checks the authenticated caller against a loaded resource.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
}

// writeError renders err as the JSON error body. Errors outside the apperr
// taxonomy are logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var typeErr *httpx.FieldTypeError
	switch {
	case errors.Is(err, httpx.ErrInvalidJSON):
		err = apperr.Field("body", "invalid_json")
	case errors.As(err, &typeErr):
		err = apperr.Field(typeErr.Field, "invalid")
	case errors.Is(err, gate.ErrNoSubject):
		auth.Unauthorized(w)
		return
	case errors.Is(err, gate.ErrPolicyDenied):
		// Records of other users are indistinguishable from missing ones.
		err = apperr.ErrNotFound
	case errors.Is(err, gate.ErrPermissionDenied):
		err = apperr.ErrForbidden
	}

	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Wrap(apperr.CodeInternal, "internal server error", err)
	}
	if e.Code == apperr.CodeInternal {
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", e)
	}
	httpx.JSONError(w, e.HTTPStatus(), string(e.Code), e.Message, e.Details)
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	httpx.JSONError(w, http.StatusNotFound, string(apperr.CodeNotFound), "not found", nil)
}

// MethodNotAllowed answers known routes called with an unsupported verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	e := apperr.ErrMethodNotAllowed
	httpx.JSONError(w, e.HTTPStatus(), string(e.Code), "method \""+r.Method+"\" not allowed", nil)
}

// pathID reads the {id} URL parameter. Malformed ids are reported as not found.
func pathID(r *http.Request, resource string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(resource)
	}
	return uint(id), nil
}
