package dto

import (
	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/validation"
)

// NameInput is the payload of tags and ingredients. Any id or owner sent is
// ignored.
type NameInput struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

// Validate checks the input. With partial set, absent fields are allowed.
func (in *NameInput) Validate(partial bool) validation.Violations {
	in.Name = trimmed(in.Name)
	v := check(in)
	requiredString("name", in.Name, partial, v)
	return orNil(v)
}

// Named is the representation of tags and ingredients.
type Named struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type (
	Tag        = Named
	Ingredient = Named
)

func NewNamed(n models.Named) Named { return Named{ID: n.GetID(), Name: n.GetName()} }

func NewTag(t *models.Tag) Tag { return NewNamed(t) }

func NewIngredient(i *models.Ingredient) Ingredient { return NewNamed(i) }

func NewTags(tags []models.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for i := range tags {
		out = append(out, NewTag(&tags[i]))
	}
	return out
}

func NewIngredients(ingredients []models.Ingredient) []Ingredient {
	out := make([]Ingredient, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, NewIngredient(&ingredients[i]))
	}
	return out
}
