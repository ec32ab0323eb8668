package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

// TaxonomyService handles tags and ingredients. Both behave the same way;
// each entry belongs to one user and is only visible to that user.
type TaxonomyService[T any] struct {
	store    repositories.Store
	repo     func(repositories.Store) repositories.TaxonomyRepository[T]
	newEntry func(userID uint, name string) *T
	kind     string
	logger   *zap.Logger
}

// NewTagService creates the service for tags.
func NewTagService(store repositories.Store, logger *zap.Logger) *TaxonomyService[models.Tag] {
	return &TaxonomyService[models.Tag]{
		store:    store,
		repo:     func(s repositories.Store) repositories.TagRepository { return s.Tags() },
		newEntry: models.NewTag,
		kind:     "tag",
		logger:   logger,
	}
}

// NewIngredientService creates the service for ingredients.
func NewIngredientService(store repositories.Store, logger *zap.Logger) *TaxonomyService[models.Ingredient] {
	return &TaxonomyService[models.Ingredient]{
		store:    store,
		repo:     func(s repositories.Store) repositories.IngredientRepository { return s.Ingredients() },
		newEntry: models.NewIngredient,
		kind:     "ingredient",
		logger:   logger,
	}
}

// List returns the user's entries, name descending.
func (s *TaxonomyService[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	return s.repo(s.store).List(ctx, userID, assignedOnly)
}

// Get returns one of the user's entries.
func (s *TaxonomyService[T]) Get(ctx context.Context, userID, id uint) (*T, error) {
	return s.repo(s.store).GetByID(ctx, id, userID)
}

// Create adds an entry owned by userID. No uniqueness is enforced here.
func (s *TaxonomyService[T]) Create(ctx context.Context, userID uint, name string) (*T, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	entry := s.newEntry(userID, name)
	if err := s.repo(s.store).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Rename changes the name of one of the user's entries.
func (s *TaxonomyService[T]) Rename(ctx context.Context, userID, id uint, name string) (*T, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.repo(s.store).Rename(ctx, id, userID, name)
}

// Delete removes one of the user's entries and detaches it from recipes.
func (s *TaxonomyService[T]) Delete(ctx context.Context, userID, id uint) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		return s.repo(tx).Delete(ctx, id, userID)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("taxonomy entry deleted", zap.String("kind", s.kind), zap.Uint("id", id))
	return nil
}

func cleanName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", domainerrors.Validation("name must not be blank")
	}
	if len(name) > 255 {
		return "", domainerrors.Validation("name must not exceed 255 characters")
	}
	return name, nil
}
