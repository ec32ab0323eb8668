package repositories

import (
	"context"

	"recipeapi/internal/models"
)

// RecipeFilter narrows a recipe listing. Within one id list membership is
// OR; when both lists are set a recipe must match both.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines the interface for recipe data access. Every lookup
// is scoped to the owning user.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id, userID uint) (*models.Recipe, error)
	List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error)
	Update(ctx context.Context, id, userID uint, fields map[string]any) error
	ReplaceTags(ctx context.Context, recipe *models.Recipe, tags []models.Tag) error
	ReplaceIngredients(ctx context.Context, recipe *models.Recipe, ingredients []models.Ingredient) error
	Delete(ctx context.Context, id, userID uint) error
}
