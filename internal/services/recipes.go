package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/internal/apperr"
	"github.com/diewo77/go-recipes/internal/models"
)

// Collections wired for the recipe domain.

func NewTagCollection(db *gorm.DB) *OwnedCollection[models.Tag, *models.Tag] {
	return NewOwnedCollection[models.Tag](db, CollectionConfig{
		Resource: "tag",
		Order:    "name DESC, id DESC",
		Clear:    []string{"Recipes"},
	})
}

func NewIngredientCollection(db *gorm.DB) *OwnedCollection[models.Ingredient, *models.Ingredient] {
	return NewOwnedCollection[models.Ingredient](db, CollectionConfig{
		Resource: "ingredient",
		Order:    "name DESC, id DESC",
		Clear:    []string{"Recipes"},
	})
}

func NewRecipeCollection(db *gorm.DB) *OwnedCollection[models.Recipe, *models.Recipe] {
	return NewOwnedCollection[models.Recipe](db, CollectionConfig{
		Resource: "recipe",
		Order:    "id DESC",
		Preload:  []string{"Tags", "Ingredients"},
		Clear:    []string{"Tags", "Ingredients"},
	})
}

// RecipeFilter selects recipes having any of the listed tags or ingredients.
// Both filters apply when both are set.
type RecipeFilter struct {
	Tags        []uint
	Ingredients []uint
}

func (f RecipeFilter) scopes() []Scope {
	var scopes []Scope
	if len(f.Tags) > 0 {
		ids := f.Tags
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("id IN (SELECT recipe_id FROM recipe_tags WHERE tag_id IN ?)", ids)
		})
	}
	if len(f.Ingredients) > 0 {
		ids := f.Ingredients
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("id IN (SELECT recipe_id FROM recipe_ingredients WHERE ingredient_id IN ?)", ids)
		})
	}
	return scopes
}

// RecipeRefs are the tag and ingredient ids sent with a recipe. A nil slice
// leaves the association untouched; an empty one clears it.
type RecipeRefs struct {
	Tags        []uint
	Ingredients []uint
}

// RecipeService manages recipes and their tag and ingredient sets.
type RecipeService struct {
	db      *gorm.DB
	recipes *OwnedCollection[models.Recipe, *models.Recipe]
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db, recipes: NewRecipeCollection(db)}
}

func (s *RecipeService) List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error) {
	return s.recipes.List(ctx, ownerID, filter.scopes()...)
}

func (s *RecipeService) Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	return s.recipes.Get(ctx, ownerID, id)
}

func (s *RecipeService) Delete(ctx context.Context, ownerID, id uint) error {
	return s.recipes.Delete(ctx, ownerID, id)
}

// Create stores rec for ownerID with its tags and ingredients and returns
// the reloaded recipe.
func (s *RecipeService) Create(ctx context.Context, ownerID uint, rec *models.Recipe, refs RecipeRefs) (*models.Recipe, error) {
	var out *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, ingredients, err := resolveRefs(tx, ownerID, refs)
		if err != nil {
			return err
		}
		col := s.recipes.WithTx(tx)
		if err := col.Create(ctx, ownerID, rec); err != nil {
			return err
		}
		if err := replaceRefs(tx, rec, tags, ingredients); err != nil {
			return err
		}
		out, err = col.Get(ctx, ownerID, rec.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update saves rec, which must belong to ownerID, and replaces the
// associations present in refs.
func (s *RecipeService) Update(ctx context.Context, ownerID uint, rec *models.Recipe, refs RecipeRefs) (*models.Recipe, error) {
	var out *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, ingredients, err := resolveRefs(tx, ownerID, refs)
		if err != nil {
			return err
		}
		col := s.recipes.WithTx(tx)
		if err := col.Save(ctx, ownerID, rec); err != nil {
			return err
		}
		if err := replaceRefs(tx, rec, tags, ingredients); err != nil {
			return err
		}
		out, err = col.Get(ctx, ownerID, rec.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveRefs loads the referenced records. Ids that are unknown or owned by
// someone else fail validation. Nil inputs give nil outputs.
func resolveRefs(tx *gorm.DB, ownerID uint, refs RecipeRefs) ([]models.Tag, []models.Ingredient, error) {
	violations := map[string]string{}
	var tags []models.Tag
	var ingredients []models.Ingredient

	if refs.Tags != nil {
		ids := uniqueIDs(refs.Tags)
		tags = []models.Tag{}
		if len(ids) > 0 {
			if err := tx.Where("id IN ? AND user_id = ?", ids, ownerID).Find(&tags).Error; err != nil {
				return nil, nil, err
			}
		}
		if len(tags) != len(ids) {
			violations["tags"] = "invalid_id"
		}
	}
	if refs.Ingredients != nil {
		ids := uniqueIDs(refs.Ingredients)
		ingredients = []models.Ingredient{}
		if len(ids) > 0 {
			if err := tx.Where("id IN ? AND user_id = ?", ids, ownerID).Find(&ingredients).Error; err != nil {
				return nil, nil, err
			}
		}
		if len(ingredients) != len(ids) {
			violations["ingredients"] = "invalid_id"
		}
	}
	if len(violations) > 0 {
		return nil, nil, apperr.Validation(violations)
	}
	return tags, ingredients, nil
}

func replaceRefs(tx *gorm.DB, rec *models.Recipe, tags []models.Tag, ingredients []models.Ingredient) error {
	if tags != nil {
		if err := replaceAssociation(tx, rec, "Tags", tags, len(tags)); err != nil {
			return err
		}
	}
	if ingredients != nil {
		if err := replaceAssociation(tx, rec, "Ingredients", ingredients, len(ingredients)); err != nil {
			return err
		}
	}
	return nil
}

func replaceAssociation(tx *gorm.DB, rec *models.Recipe, name string, values any, n int) error {
	assoc := tx.Model(rec).Association(name)
	if n == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
