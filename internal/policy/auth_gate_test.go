package policy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/internal/policy"
)

func newTestGate() *policy.AuthGate {
	ag := policy.NewAuthGate(policy.FlagProfileResolver{})
	ag.RegisterPolicy(policy.ResourceRecipe, policy.NewOwnershipPolicy())
	return ag
}

func TestAuthGate_Authorize(t *testing.T) {
	ag := newTestGate()
	owner := &models.User{ID: 1, IsActive: true}
	other := &models.User{ID: 2, IsActive: true}
	recipe := &models.Recipe{UserID: 1}

	err := ag.Authorize(context.Background(), gate.ActionView, policy.ResourceRecipe, recipe)
	assert.True(t, errors.Is(err, gate.ErrNoSubject))

	ctx := auth.WithUser(context.Background(), owner)
	assert.NoError(t, ag.Authorize(ctx, gate.ActionUpdate, policy.ResourceRecipe, recipe))
	assert.True(t, ag.CanProfile(ctx, gate.ActionList, policy.ResourceRecipe))
	assert.False(t, ag.CanProfile(ctx, gate.ActionList, policy.ResourceUser))

	ctx = auth.WithUser(context.Background(), other)
	err = ag.Authorize(ctx, gate.ActionView, policy.ResourceRecipe, recipe)
	assert.True(t, errors.Is(err, gate.ErrPolicyDenied))
	assert.False(t, ag.Can(ctx, gate.ActionDelete, policy.ResourceRecipe, recipe))
}

func TestAuthGate_RequirePermission(t *testing.T) {
	ag := newTestGate()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := ag.RequirePermission(policy.ResourceUser, gate.ActionList)(ok)

	tests := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &models.User{ID: 1, IsActive: true}, http.StatusForbidden},
		{"staff", &models.User{ID: 2, IsActive: true, IsStaff: true}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthGate_RequireResource(t *testing.T) {
	ag := newTestGate()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	staff := &models.User{ID: 2, IsActive: true, IsStaff: true}

	tests := []struct {
		method     string
		collection bool
		status     int
	}{
		{http.MethodGet, true, http.StatusNoContent},
		{http.MethodGet, false, http.StatusNoContent},
		{http.MethodDelete, false, http.StatusForbidden},
		{http.MethodPost, true, http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/admin/users", nil)
		req = req.WithContext(auth.WithUser(req.Context(), staff))
		rec := httptest.NewRecorder()
		ag.RequireResource(policy.ResourceUser, tt.collection)(ok).ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, "%s collection=%v", tt.method, tt.collection)
	}
}
