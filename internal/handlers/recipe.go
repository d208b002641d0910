package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-recipes/auth"
	"github.com/diewo77/go-recipes/gate"
	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/dto"
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/internal/services"
)

const resourceRecipe = "recipe"

type RecipeHandler struct {
	recipes *services.RecipeService
	authz   Authorizer
	log     *slog.Logger
}

func NewRecipeHandler(recipes *services.RecipeService, authz Authorizer, log *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, authz: authz, log: log}
}

// List returns the caller's recipes, newest first.
// ?tags=1,2 and ?ingredients=3 keep recipes having any of the ids.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var filter services.RecipeFilter
	var err error
	if filter.Tags, err = queryIDs(r, "tags"); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if filter.Ingredients, err = queryIDs(r, "ingredients"); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	recipes, err := h.recipes.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewRecipes(recipes))
}

// Create adds a recipe owned by the caller.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var in dto.RecipeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(false); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	var rec models.Recipe
	in.Apply(&rec)
	created, err := h.recipes.Create(r.Context(), userID, &rec, services.RecipeRefs{Tags: in.Tags, Ingredients: in.Ingredients})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, dto.NewRecipe(created))
}

// Get returns the detail representation with embedded tags and ingredients.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.load(r, gate.ActionView)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewRecipeDetail(rec))
}

// Update handles PUT (full) and PATCH (partial). Tags and ingredients
// are replaced only when sent.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	rec, err := h.load(r, gate.ActionUpdate)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var in dto.RecipeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v := in.Validate(r.Method == http.MethodPatch); v != nil {
		writeError(w, r, h.log, apperr.Validation(v))
		return
	}
	in.Apply(rec)
	updated, err := h.recipes.Update(r.Context(), userID, rec, services.RecipeRefs{Tags: in.Tags, Ingredients: in.Ingredients})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dto.NewRecipe(updated))
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	rec, err := h.load(r, gate.ActionDelete)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.recipes.Delete(r.Context(), userID, rec.ID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}

func (h *RecipeHandler) load(r *http.Request, action gate.Action) (*models.Recipe, error) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id, err := pathID(r, resourceRecipe)
	if err != nil {
		return nil, err
	}
	rec, err := h.recipes.Get(r.Context(), userID, id)
	if err != nil {
		return nil, err
	}
	if err := h.authz.Authorize(r.Context(), action, resourceRecipe, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// queryIDs parses a comma separated id list such as "1,2,3".
func queryIDs(r *http.Request, name string) ([]uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, apperr.Field(name, "invalid_id_list")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
