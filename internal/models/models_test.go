package models

import (
	"reflect"
	"testing"
)

func TestOwnedResources(t *testing.T) {
	resources := []Owned{&Tag{}, &Ingredient{}, &Recipe{}}
	for _, r := range resources {
		r.SetUserID(42)
		if got := r.GetUserID(); got != 42 {
			t.Errorf("%T.GetUserID() = %d, want 42", r, got)
		}
	}
}

func TestNamedResources(t *testing.T) {
	for _, n := range []Named{&Tag{ID: 3}, &Ingredient{ID: 3}} {
		n.SetName("Kale")
		if n.GetName() != "Kale" || n.GetID() != 3 {
			t.Errorf("%T: got id=%d name=%q", n, n.GetID(), n.GetName())
		}
	}
}

func TestRecipe_RelatedIDs(t *testing.T) {
	tests := []struct {
		name        string
		recipe      Recipe
		tags        []uint
		ingredients []uint
	}{
		{
			name:        "empty",
			recipe:      Recipe{},
			tags:        []uint{},
			ingredients: []uint{},
		},
		{
			name: "sorted ascending",
			recipe: Recipe{
				Tags:        []Tag{{ID: 7}, {ID: 2}, {ID: 5}},
				Ingredients: []Ingredient{{ID: 9}, {ID: 1}},
			},
			tags:        []uint{2, 5, 7},
			ingredients: []uint{1, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.recipe.TagIDs(); !reflect.DeepEqual(got, tt.tags) {
				t.Errorf("TagIDs() = %v, want %v", got, tt.tags)
			}
			if got := tt.recipe.IngredientIDs(); !reflect.DeepEqual(got, tt.ingredients) {
				t.Errorf("IngredientIDs() = %v, want %v", got, tt.ingredients)
			}
		})
	}
}

func TestAll_ListsEveryTable(t *testing.T) {
	if got := len(All()); got != 5 {
		t.Errorf("All() returned %d models, want 5", got)
	}
}
