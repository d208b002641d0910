package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/models"
)

// AuthGate binds the gate to the authenticated user of the request.
type AuthGate struct {
	Gate *gate.Gate[*models.User]
}

// NewAuthGate creates a gate resolving profiles with resolver.
func NewAuthGate(resolver gate.ProfileResolver[*models.User]) *AuthGate {
	return &AuthGate{Gate: gate.New[*models.User](resolver)}
}

// RegisterPolicy adds a policy for a resource type.
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[*models.User]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks if the current user can perform an action on a resource.
// It returns gate.ErrNoSubject for anonymous requests.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return gate.ErrNoSubject
	}
	return ag.Gate.Authorize(ctx, user, action, resourceType, resource)
}

// Can is Authorize returning a bool.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks only profile permissions, before a resource is loaded.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, user, action, resourceType)
}

// RequirePermission returns middleware that checks the profile permission.
// Anonymous requests get a 401, authenticated ones lacking it a 403.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserFromContext(r.Context()); !ok {
				auth.Unauthorized(w)
				return
			}
			if !ag.CanProfile(r.Context(), action, resourceType) {
				e := apperr.ErrForbidden
				httpx.JSONError(w, e.HTTPStatus(), string(e.Code), e.Message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireResource is RequirePermission with the action taken from the HTTP
// method. GET on a collection maps to list, on a single record to view.
func (ag *AuthGate) RequireResource(resourceType string, collection bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			action := gate.ActionForMethod(r.Method)
			if collection && action == gate.ActionView {
				action = gate.ActionList
			}
			ag.RequirePermission(resourceType, action)(next).ServeHTTP(w, r)
		})
	}
}
