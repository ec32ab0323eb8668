package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
	"recipeapi/internal/storage"
)

var maxPrice = decimal.NewFromInt(1000)

// RecipeChanges describes a recipe write. Nil scalar fields are left as they
// are. A nil Tags or Ingredients list leaves that association untouched; a
// non-nil list, even an empty one, replaces it entirely.
type RecipeChanges struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        []string
	Ingredients []string
}

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	store  repositories.Store
	images storage.ImageStore
	events eventBus
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService. publisher may be nil.
func NewRecipeService(store repositories.Store, images storage.ImageStore, publisher EventPublisher, exchange string, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		store:  store,
		images: images,
		events: eventBus{publisher: publisher, exchange: exchange, logger: logger},
		logger: logger,
	}
}

// ListRecipes returns the user's recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uint, filter repositories.RecipeFilter) ([]models.Recipe, error) {
	return s.store.Recipes().List(ctx, userID, filter)
}

// GetRecipe returns one of the user's recipes. Other users' recipes are
// reported as not found.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	return s.store.Recipes().GetByID(ctx, id, userID)
}

// CreateRecipe creates a recipe owned by userID together with any nested
// tags and ingredients, all in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uint, in RecipeChanges) (*models.Recipe, error) {
	if err := requireComplete(in); err != nil {
		return nil, err
	}
	if err := validateChanges(in); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      userID,
		Title:       *in.Title,
		TimeMinutes: *in.TimeMinutes,
		Price:       *in.Price,
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}

	var created *models.Recipe
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Recipes().Create(ctx, recipe); err != nil {
			return err
		}
		if err := replaceAssociations(ctx, tx, recipe.ID, userID, in.Tags, in.Ingredients); err != nil {
			return err
		}
		var err error
		created, err = tx.Recipes().GetByID(ctx, recipe.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(EventRecipeCreated, RecipeEvent{RecipeID: created.ID, UserID: userID})
	return created, nil
}

// UpdateRecipe applies a partial update. The owner of a recipe never changes.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uint, in RecipeChanges) (*models.Recipe, error) {
	if err := validateChanges(in); err != nil {
		return nil, err
	}

	var updated *models.Recipe
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Recipes().GetByID(ctx, id, userID); err != nil {
			return err
		}
		if err := tx.Recipes().Update(ctx, id, userID, columns(in)); err != nil {
			return err
		}
		if err := replaceAssociations(ctx, tx, id, userID, in.Tags, in.Ingredients); err != nil {
			return err
		}
		var err error
		updated, err = tx.Recipes().GetByID(ctx, id, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(EventRecipeUpdated, RecipeEvent{RecipeID: id, UserID: userID})
	return updated, nil
}

// ReplaceRecipe is a full update: title, time and price must be supplied.
func (s *RecipeService) ReplaceRecipe(ctx context.Context, userID, id uint, in RecipeChanges) (*models.Recipe, error) {
	if err := requireComplete(in); err != nil {
		return nil, err
	}
	return s.UpdateRecipe(ctx, userID, id, in)
}

// DeleteRecipe removes the recipe and then its image. Tags and ingredients
// stay.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uint) error {
	var imageKey string
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		recipe, err := tx.Recipes().GetByID(ctx, id, userID)
		if err != nil {
			return err
		}
		imageKey = recipe.Image
		return tx.Recipes().Delete(ctx, id, userID)
	})
	if err != nil {
		return err
	}

	if imageKey != "" {
		if err := s.images.Delete(ctx, imageKey); err != nil {
			s.logger.Warn("failed to delete recipe image",
				zap.Uint("recipe_id", id), zap.String("key", imageKey), zap.Error(err))
		}
	}

	s.events.publish(EventRecipeDeleted, RecipeEvent{RecipeID: id, UserID: userID})
	return nil
}

// UploadImage validates data as an image, stores it under a fresh key that
// keeps the extension of filename, and points the recipe at it. A previous
// image is left in storage.
func (s *RecipeService) UploadImage(ctx context.Context, userID, id uint, filename string, data []byte) (*models.Recipe, error) {
	if _, err := s.store.Recipes().GetByID(ctx, id, userID); err != nil {
		return nil, err
	}

	contentType, err := storage.DetectImage(data)
	if err != nil {
		return nil, err
	}

	key := storage.RecipeImageKey(filepath.Ext(filename))
	if err := s.images.Save(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("failed to store recipe image: %w", err)
	}

	var updated *models.Recipe
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Recipes().Update(ctx, id, userID, map[string]any{"image": key}); err != nil {
			return err
		}
		var err error
		updated, err = tx.Recipes().GetByID(ctx, id, userID)
		return err
	})
	if err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("recipe image uploaded", zap.Uint("recipe_id", id), zap.String("key", key))
	s.events.publish(EventRecipeUpdated, RecipeEvent{RecipeID: id, UserID: userID})
	return updated, nil
}

// ImageURL returns the public URL of the recipe's image, or "" when unset.
func (s *RecipeService) ImageURL(recipe *models.Recipe) string {
	if recipe.Image == "" {
		return ""
	}
	return s.images.URL(recipe.Image)
}

func requireComplete(in RecipeChanges) error {
	missing := make(map[string]string)
	if in.Title == nil {
		missing["title"] = "is required"
	}
	if in.TimeMinutes == nil {
		missing["time_minutes"] = "is required"
	}
	if in.Price == nil {
		missing["price"] = "is required"
	}
	if len(missing) > 0 {
		return domainerrors.ValidationWithDetails("validation failed", missing)
	}
	return nil
}

func validateChanges(in RecipeChanges) error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return domainerrors.Validation("title must not be blank")
	}
	if in.TimeMinutes != nil && *in.TimeMinutes < 0 {
		return domainerrors.Validation("time_minutes must be greater than or equal to 0")
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
	}
	return nil
}

// validatePrice accepts non-negative amounts with at most five digits, two
// of them after the decimal point.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domainerrors.Validation("price must not be negative")
	}
	if price.Exponent() < -2 {
		return domainerrors.Validation("price must have no more than 2 decimal places")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return domainerrors.Validation("price must have no more than 5 digits in total")
	}
	return nil
}

func columns(in RecipeChanges) map[string]any {
	fields := make(map[string]any)
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.TimeMinutes != nil {
		fields["time_minutes"] = *in.TimeMinutes
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Link != nil {
		fields["link"] = *in.Link
	}
	return fields
}
