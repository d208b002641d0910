package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/dto"
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/internal/services"
)

// NamedHandler serves the CRUD endpoints of tags and ingredients.
type NamedHandler[T any, PT interface {
	*T
	models.Named
}] struct {
	items    *services.OwnedCollection[T, PT]
	authz    Authorizer
	resource string
	// joinTable and joinColumn drive the assigned_only filter.
	joinTable  string
	joinColumn string
	log        *slog.Logger
}

func NewTagHandler(items *services.OwnedCollection[models.Tag, *models.Tag], authz Authorizer, log *slog.Logger) *NamedHandler[models.Tag, *models.Tag] {
	return &NamedHandler[models.Tag, *models.Tag]{
		items: items, authz: authz, resource: "tag",
		joinTable: "recipe_tags", joinColumn: "tag_id", log: log,
	}
}

func NewIngredientHandler(items *services.OwnedCollection[models.Ingredient, *models.Ingredient], authz Authorizer, log *slog.Logger) *NamedHandler[models.Ingredient, *models.Ingredient] {
	return &NamedHandler[models.Ingredient, *models.Ingredient]{
		items: items, authz: authz, resource: "ingredient",
		joinTable: "recipe_ingredients", joinColumn: "ingredient_id", log: log,
	}
}

// List returns the caller's records. ?assigned_only=1 keeps those used by a recipe.
func (h *NamedHandler[T, PT]) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	assigned, err := queryFlag(r, "assigned_only")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var scopes []services.Scope
	if assigned {
		scopes = append(scopes, services.AssignedOnly(h.joinTable, h.joinColumn))
	}
	items, err := h.items.List(r.Context(), userID, scopes...)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	out := make([]dto.Named, 0, len(items))
	for i := range items {
		out = append(out, dto.NewNamed(PT(&items[i])))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create adds a record owned by the caller.
func (h *NamedHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var in dto.NameInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(false); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	rec := PT(new(T))
	rec.SetName(*in.Name)
	if err := h.items.Create(r.Context(), userID, rec); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dto.NewNamed(rec))
}

// Get returns one record of the caller.
func (h *NamedHandler[T, PT]) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.load(r, gate.ActionView)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewNamed(rec))
}

// Update renames a record. PUT requires the name, PATCH accepts an empty body.
func (h *NamedHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	rec, err := h.load(r, gate.ActionUpdate)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var in dto.NameInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(r.Method == http.MethodPatch); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	if in.Name != nil {
		rec.SetName(*in.Name)
	}
	if err := h.items.Save(r.Context(), userID, rec); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewNamed(rec))
}

// Delete removes a record; recipes using it stay.
func (h *NamedHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	rec, err := h.load(r, gate.ActionDelete)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.items.Delete(r.Context(), userID, rec.GetID()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}

// load fetches the {id} record of the caller and authorizes action on it.
func (h *NamedHandler[T, PT]) load(r *http.Request, action gate.Action) (PT, error) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r, h.resource)
	if err != nil {
		return nil, err
	}
	rec, err := h.items.Get(r.Context(), userID, id)
	if err != nil {
		return nil, err
	}
	if err := h.authz.Authorize(r.Context(), action, h.resource, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// queryFlag reads a 0/1 query parameter. Absent means false.
func queryFlag(r *http.Request, name string) (bool, error) {
	switch r.URL.Query().Get(name) {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, apperr.Field(name, "invalid")
	}
}
