package repositories

import (
	"context"

	"recipeapi/internal/models"
)

// TaxonomyRepository is the data access contract shared by tags and
// ingredients. Every lookup is scoped to the owning user.
type TaxonomyRepository[T any] interface {
	Create(ctx context.Context, entry *T) error
	// List returns the user's entries ordered by name descending. With
	// assignedOnly set, only entries attached to at least one recipe are
	// returned, each once.
	List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error)
	GetByID(ctx context.Context, id, userID uint) (*T, error)
	Rename(ctx context.Context, id, userID uint, name string) (*T, error)
	// Delete removes the entry and its recipe associations. Recipes remain.
	Delete(ctx context.Context, id, userID uint) error
	// GetOrCreate returns the user's entry with exactly this name, creating
	// it when none exists.
	GetOrCreate(ctx context.Context, userID uint, name string) (*T, error)
}

type (
	TagRepository        = TaxonomyRepository[models.Tag]
	IngredientRepository = TaxonomyRepository[models.Ingredient]
)
