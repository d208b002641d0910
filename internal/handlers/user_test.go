package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-recipes/internal/models"
)

func TestUserCreate(t *testing.T) {
	env := newTestEnv(t)
	h := env.rc.UserHandler

	rec := call(t, h.Create, http.MethodPost, "/user/create", "/user/create", nil, map[string]string{
		"email": "Test@Example.COM ", "password": "testpass123", "name": "Test Name",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"email":"test@example.com","name":"Test Name"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	u, err := env.rc.UserService.Verify(context.Background(), "test@example.com", "testpass123")
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsStaff)

	rec = call(t, h.Create, http.MethodPost, "/user/create", "/user/create", nil, map[string]string{
		"email": "test@example.com", "password": "otherpass",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"email": "already_exists"}, decode[errorBody](t, rec).Details)
}

func TestUserCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name    string
		body    map[string]string
		details map[string]string
	}{
		{"short password", map[string]string{"email": "a@example.com", "password": "pw"}, map[string]string{"password": "too_short"}},
		{"bad email", map[string]string{"email": "nope", "password": "testpass123"}, map[string]string{"email": "invalid_email"}},
		{"missing", map[string]string{}, map[string]string{"email": "required", "password": "required"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, env.rc.UserHandler.Create, http.MethodPost, "/user/create", "/user/create", nil, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.details, decode[errorBody](t, rec).Details)
		})
	}

	users, err := env.rc.UserService.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users, "no user is created on invalid input")
}

func TestUserToken(t *testing.T) {
	env := newTestEnv(t)
	h := env.rc.UserHandler
	env.user("test@example.com")

	token := func(body map[string]string) (int, string) {
		rec := call(t, h.Token, http.MethodPost, "/user/token", "/user/token", nil, body)
		if rec.Code != http.StatusOK {
			return rec.Code, decode[errorBody](t, rec).Error
		}
		return rec.Code, decode[map[string]string](t, rec)["token"]
	}

	code, first := token(map[string]string{"email": "TEST@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, first, 40)

	code, second := token(map[string]string{"email": "test@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, first, second, "the same token is returned until invalidated")

	for _, body := range []map[string]string{
		{"email": "test@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "password123"},
		{"email": "test@example.com"},
	} {
		code, errCode := token(body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "authentication_failed", errCode)
	}
}

func TestInvalidateToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user("test@example.com")
	tok, err := env.rc.UserService.IssueToken(ctx, u)
	require.NoError(t, err)

	rec := call(t, env.rc.UserHandler.InvalidateToken, http.MethodPost, "/user/token/invalidate", "/user/token/invalidate", u, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = env.rc.UserService.ResolveToken(ctx, tok.Key)
	assert.Error(t, err, "old token no longer resolves")

	next, err := env.rc.UserService.IssueToken(ctx, u)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Key, next.Key)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	h := env.rc.UserHandler
	u := env.user("test@example.com")

	rec := call(t, h.Me, http.MethodGet, "/user/me", "/user/me", u, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"test@example.com","name":""}`, rec.Body.String())

	rec = call(t, h.UpdateMe, http.MethodPatch, "/user/me", "/user/me", u, map[string]string{"name": "New Name", "password": "newpassword123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"email":"test@example.com","name":"New Name"}`, rec.Body.String())

	_, err := env.rc.UserService.Verify(context.Background(), "test@example.com", "newpassword123")
	assert.NoError(t, err, "password is changed")
	_, err = env.rc.UserService.Verify(context.Background(), "test@example.com", "password123")
	assert.Error(t, err)

	rec = call(t, h.UpdateMe, http.MethodPut, "/user/me", "/user/me", u, map[string]string{"name": "Only Name"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"email": "required"}, decode[errorBody](t, rec).Details)

	rec = call(t, h.UpdateMe, http.MethodPatch, "/user/me", "/user/me", u, map[string]string{"email": " Renamed@Example.COM "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"email":"renamed@example.com","name":"New Name"}`, rec.Body.String())

	env.user("taken@example.com")
	rec = call(t, h.UpdateMe, http.MethodPatch, "/user/me", "/user/me", u, map[string]string{"email": "taken@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"email": "already_exists"}, decode[errorBody](t, rec).Details)
}

func TestAdminUsers(t *testing.T) {
	env := newTestEnv(t)
	h := env.rc.AdminUserHandler
	admin, err := env.rc.UserService.CreateSuperuser(context.Background(), "admin@example.com", "adminpass")
	require.NoError(t, err)

	rec := call(t, h.Create, http.MethodPost, "/admin/users", "/admin/users", admin, map[string]any{
		"email": "staff@example.com", "password": "staffpass", "is_staff": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	staff := decode[map[string]any](t, rec)
	assert.Equal(t, true, staff["is_staff"])
	assert.Equal(t, false, staff["is_superuser"])
	assert.Equal(t, true, staff["is_active"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec = call(t, h.List, http.MethodGet, "/admin/users", "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	item := fmt.Sprintf("/admin/users/%v", staff["id"])
	rec = call(t, h.Update, http.MethodPatch, "/admin/users/{id}", item, admin, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, rec)["is_active"])

	rec = call(t, h.Get, http.MethodGet, "/admin/users/{id}", "/admin/users/999", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, err := env.rc.UserService.CreateSuperuser(ctx, "admin@example.com", "adminpass")
	require.NoError(t, err)
	owner := env.user("owner@example.com")
	tag := env.tag(owner, "Vegan")
	env.recipe(owner, map[string]any{"title": "Soup", "time_minutes": 1, "price": 1, "tags": []uint{tag.ID}})
	_, err = env.rc.UserService.IssueToken(ctx, owner)
	require.NoError(t, err)

	rec := call(t, env.rc.AdminUserHandler.Delete, http.MethodDelete, "/admin/users/{id}", fmt.Sprintf("/admin/users/%d", owner.ID), admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = env.rc.UserService.GetUser(ctx, owner.ID)
	assert.Error(t, err)
	rec = call(t, env.rc.TagHandler.List, http.MethodGet, "/tags", "/tags", &models.User{ID: owner.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]named](t, rec))
	rec = call(t, env.rc.RecipeHandler.List, http.MethodGet, "/recipes", "/recipes", &models.User{ID: owner.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]recipeBody](t, rec))
}
