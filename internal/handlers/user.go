package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/dto"
	"github.com/diewo77/go-recipes/internal/metrics"
	"github.com/diewo77/go-recipes/internal/services"
)

// UserHandler serves registration, token issuance and the "me" endpoint.
type UserHandler struct {
	users *services.UserService
	log   *slog.Logger
}

func NewUserHandler(users *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Create registers a new user. POST /user/create
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	u, err := h.users.CreateUser(r.Context(), in.Email, in.Password, services.WithName(in.Name))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.InfoContext(r.Context(), "user registered", "user_id", u.ID)
	httpx.JSON(w, http.StatusCreated, dto.NewUser(u))
}

// Token exchanges credentials for the user's token. POST /user/token
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	var in dto.TokenInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(); v != nil {
		metrics.ObserveToken(metrics.TokenRejected)
		writeError(w, r, h.log, &apperr.Error{
			Code:    apperr.CodeAuthenticationFailed,
			Message: apperr.ErrAuthenticationFailed.Message,
			Details: v,
		})
		return
	}
	u, err := h.users.Verify(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrAuthenticationFailed) {
			metrics.ObserveToken(metrics.TokenRejected)
		}
		writeError(w, r, h.log, err)
		return
	}
	tok, err := h.users.IssueToken(r.Context(), u)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	metrics.ObserveToken(metrics.TokenIssued)
	httpx.JSON(w, http.StatusOK, dto.Token{Token: tok.Key})
}

// InvalidateToken deletes the caller's token. POST /user/token/invalidate
func (h *UserHandler) InvalidateToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.users.InvalidateToken(r.Context(), userID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	metrics.ObserveToken(metrics.TokenRevoked)
	httpx.NoContent(w)
}

// Me returns the caller's profile. GET /user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, dto.NewUser(u))
}

// UpdateMe changes the caller's profile. PATCH updates the fields sent,
// PUT additionally requires the email. PUT|PATCH /user/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	var in dto.UpdateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(r.Method == http.MethodPatch); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	if err := h.users.UpdateUser(r.Context(), u, in.Patch()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewUser(u))
}
