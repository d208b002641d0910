package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/dto"
	"github.com/diewo77/go-recipes/internal/services"
)

// AdminUserHandler manages accounts for staff and superusers.
// Permissions are enforced by the router.
type AdminUserHandler struct {
	users *services.UserService
	log   *slog.Logger
}

func NewAdminUserHandler(users *services.UserService, log *slog.Logger) *AdminUserHandler {
	return &AdminUserHandler{users: users, log: log}
}

// List returns every user ordered by id.
func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewAdminUsers(users))
}

func (h *AdminUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	u, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewAdminUser(u))
}

// Create registers a user, optionally with the staff or superuser flag.
func (h *AdminUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.AdminCreateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	u, err := h.users.CreateUser(r.Context(), in.Email, in.Password, in.Options()...)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.InfoContext(r.Context(), "admin created user", "user_id", u.ID, "staff", u.IsStaff, "superuser", u.IsSuperuser)
	httpx.JSON(w, http.StatusCreated, dto.NewAdminUser(u))
}

// Update applies the fields sent to any account.
func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	u, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var in dto.AdminUpdateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(true); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	if err := h.users.UpdateUser(r.Context(), u, in.Patch()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewAdminUser(u))
}

// Delete removes an account and everything it owns.
func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.InfoContext(r.Context(), "admin deleted user", "user_id", id)
	httpx.NoContent(w)
}
