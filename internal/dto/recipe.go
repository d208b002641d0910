package dto

import (
	"encoding/json"
	"sort"

	"github.com/diewo77/go-recipes/internal/models"
	"github.com/diewo77/go-recipes/validation"
)

// RecipeInput is the payload of recipe writes. Tags and Ingredients hold
// ids; nil means the field was absent and the set stays as it is.
type RecipeInput struct {
	Title       *string         `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int            `json:"time_minutes"`
	Price       json.RawMessage `json:"price"`
	Link        *string         `json:"link" validate:"omitempty,max=255,url"`
	Tags        []uint          `json:"tags"`
	Ingredients []uint          `json:"ingredients"`

	price float64
}

// Validate checks the input. With partial set (PATCH), absent fields are
// allowed; otherwise title, time_minutes and price are required and absent
// tags or ingredients mean empty sets.
func (in *RecipeInput) Validate(partial bool) validation.Violations {
	in.Title = trimmed(in.Title)
	in.Link = trimmed(in.Link)
	if !partial {
		if in.Tags == nil {
			in.Tags = []uint{}
		}
		if in.Ingredients == nil {
			in.Ingredients = []uint{}
		}
	}
	v := check(in)
	requiredString("title", in.Title, partial, v)

	if in.TimeMinutes == nil {
		if !partial {
			v.Add("time_minutes", "required")
		}
	} else {
		validation.NonNegativeInt("time_minutes", *in.TimeMinutes, v)
	}

	switch {
	case !in.hasPrice():
		if !partial {
			v.Add("price", "required")
		}
	default:
		p, err := ParsePrice(in.Price)
		if err != nil {
			v.Add("price", err.Error())
			break
		}
		validation.RangeFloat("price", p, MinPrice, MaxPrice, v)
		in.price = p
	}
	return orNil(v)
}

func (in *RecipeInput) hasPrice() bool {
	return len(in.Price) > 0 && string(in.Price) != "null"
}

// Apply copies the present fields onto rec. Call it after Validate.
func (in *RecipeInput) Apply(rec *models.Recipe) {
	if in.Title != nil {
		rec.Title = *in.Title
	}
	if in.TimeMinutes != nil {
		rec.TimeMinutes = *in.TimeMinutes
	}
	if in.hasPrice() {
		rec.Price = in.price
	}
	if in.Link != nil {
		rec.Link = *in.Link
	}
}

// Recipe is the list representation: related objects as sorted ids.
type Recipe struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	TimeMinutes int    `json:"time_minutes"`
	Price       Price  `json:"price"`
	Link        string `json:"link"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
}

// RecipeDetail embeds the related objects.
type RecipeDetail struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       Price        `json:"price"`
	Link        string       `json:"link"`
	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}

func NewRecipe(r *models.Recipe) Recipe {
	return Recipe{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       Price(r.Price),
		Link:        r.Link,
		Tags:        r.TagIDs(),
		Ingredients: r.IngredientIDs(),
	}
}

func NewRecipes(recipes []models.Recipe) []Recipe {
	out := make([]Recipe, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipe(&recipes[i]))
	}
	return out
}

func NewRecipeDetail(r *models.Recipe) RecipeDetail {
	tags := NewTags(r.Tags)
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	ingredients := NewIngredients(r.Ingredients)
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].ID < ingredients[j].ID })
	return RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       Price(r.Price),
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}
}
