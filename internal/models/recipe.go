package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Join tables for the recipe many-to-many associations.
const (
	RecipeTagsTable        = "recipe_tags"
	RecipeIngredientsTable = "recipe_ingredients"
)

// Recipe is owned by one user and references that user's tags and ingredients.
type Recipe struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"-" gorm:"not null;index"`
	Title       string          `json:"title" gorm:"type:varchar(255);not null"`
	TimeMinutes int             `json:"time_minutes" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(5,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Link        string          `json:"link" gorm:"type:varchar(255)"`
	Image       string          `json:"image" gorm:"type:varchar(255)"` // storage key, empty when unset
	Tags        []Tag           `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient    `json:"ingredients" gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (r Recipe) String() string {
	return r.Title
}
