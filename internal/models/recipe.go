package models

import (
	"sort"
	"time"
)

// Tag groups recipes, e.g. "Vegan" or "Dessert".
type Tag struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	Name    string   `gorm:"size:255;not null" json:"name"`
	UserID  uint     `gorm:"index;not null" json:"-"`
	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipes []Recipe `gorm:"many2many:recipe_tags" json:"-"`
}

func (t *Tag) GetID() uint { return t.ID }
func (t *Tag) GetUserID() uint { return t.UserID }
func (t *Tag) SetUserID(userID uint) { t.UserID = userID }
func (t *Tag) GetName() string { return t.Name }
func (t *Tag) SetName(name string) { t.Name = name }

// Ingredient is something a recipe is made of.
type Ingredient struct {
	ID      uint     `gorm:"primaryKey" json:"id"`
	Name    string   `gorm:"size:255;not null" json:"name"`
	UserID  uint     `gorm:"index;not null" json:"-"`
	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipes []Recipe `gorm:"many2many:recipe_ingredients" json:"-"`
}

func (i *Ingredient) GetID() uint { return i.ID }
func (i *Ingredient) GetUserID() uint { return i.UserID }
func (i *Ingredient) SetUserID(userID uint) { i.UserID = userID }
func (i *Ingredient) GetName() string { return i.Name }
func (i *Ingredient) SetName(name string) { i.Name = name }

// Recipe is the main resource of the API.
type Recipe struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UserID      uint         `gorm:"index;not null" json:"-"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	TimeMinutes int          `gorm:"not null" json:"time_minutes"`
	Price       float64      `gorm:"type:decimal(5,2);not null" json:"price"`
	Link        string       `gorm:"size:255" json:"link"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) GetID() uint { return r.ID }
func (r *Recipe) GetUserID() uint { return r.UserID }
func (r *Recipe) SetUserID(userID uint) { r.UserID = userID }

// TagIDs returns the ids of the loaded tags in ascending order.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IngredientIDs returns the ids of the loaded ingredients in ascending order.
func (r *Recipe) IngredientIDs() []uint {
	ids := make([]uint, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
