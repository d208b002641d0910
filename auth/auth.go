// Package auth authenticates API requests carrying an opaque token in the
// Authorization header and exposes the caller through the request context.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/models"
)

type ctxKey string

const userCtxKey = ctxKey("user")

// Schemes accepted in the Authorization header.
var schemes = []string{"Token", "Bearer"}

// TokenResolver maps a token key to its active user. It returns an
// apperr.ErrAuthenticationRequired error when the key is unknown.
type TokenResolver func(ctx context.Context, key string) (*models.User, error)

// Authenticator attaches the token owner to each request.
type Authenticator struct {
	resolve TokenResolver
	log     *slog.Logger
}

// New creates an authenticator.
func New(resolve TokenResolver, log *slog.Logger) *Authenticator {
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{resolve: resolve, log: log}
}

// TokenFromRequest extracts the key of an "Authorization: Token <key>" or
// "Authorization: Bearer <key>" header. The scheme is case-insensitive.
func TokenFromRequest(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, key, ok := strings.Cut(header, " ")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	for _, s := range schemes {
		if strings.EqualFold(scheme, s) {
			return key, true
		}
	}
	return "", false
}

// Middleware attaches the user to the request context if the token resolves.
// Requests without a valid token pass through anonymously. Lookup failures
// other than an unknown key answer 500.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := TokenFromRequest(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		user, err := a.resolve(r.Context(), key)
		switch {
		case err == nil && user != nil:
			r = r.WithContext(WithUser(r.Context(), user))
		case err != nil && !errors.Is(err, apperr.ErrAuthenticationRequired):
			// Only an unknown key is an authentication failure.
			a.log.ErrorContext(r.Context(), "token lookup failed", "error", err)
			httpx.JSONError(w, http.StatusInternalServerError, string(apperr.CodeInternal), "internal server error", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects anonymous requests with a 401 JSON body.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Unauthorized writes the 401 response.
func Unauthorized(w http.ResponseWriter) {
	e := apperr.ErrAuthenticationRequired
	w.Header().Set("WWW-Authenticate", `Token realm="api"`)
	httpx.JSONError(w, e.HTTPStatus(), string(e.Code), e.Message, nil)
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the authenticated user.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*models.User)
	return u, ok && u != nil
}

// UserIDFromContext returns the id of the authenticated user.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return u.ID, true
}
