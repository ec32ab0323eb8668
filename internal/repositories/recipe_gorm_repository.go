package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *GORMRecipeRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tags", orderByID).
		Preload("Ingredients", orderByID)
}

// Create inserts the recipe row only; associations are set separately.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// GetByID returns the recipe with its tags and ingredients. A recipe owned by
// someone else is reported exactly like a missing one.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id, userID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.withAssociations(ctx).Where("id = ? AND user_id = ?", id, userID).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound(fmt.Sprintf("recipe with ID %d not found", id))
		}
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	return &recipe, nil
}

// List returns the user's recipes, newest first.
func (r *GORMRecipeRepository) List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error) {
	query := r.withAssociations(ctx).Where("user_id = ?", userID)
	if len(filter.TagIDs) > 0 {
		query = query.Where("id IN (?)", r.db.Table(models.RecipeTagsTable).
			Select("recipe_id").Where("tag_id IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.Where("id IN (?)", r.db.Table(models.RecipeIngredientsTable).
			Select("recipe_id").Where("ingredient_id IN ?", filter.IngredientIDs))
	}

	recipes := make([]models.Recipe, 0)
	if err := query.Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Update writes the given columns. Zero values in fields are written as-is.
func (r *GORMRecipeRepository) Update(ctx context.Context, id, userID uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domainerrors.NotFound(fmt.Sprintf("recipe with ID %d not found for update", id))
	}
	return nil
}

// ReplaceTags sets the recipe's tags to exactly tags.
func (r *GORMRecipeRepository) ReplaceTags(ctx context.Context, recipe *models.Recipe, tags []models.Tag) error {
	assoc := r.db.WithContext(ctx).Model(recipe).Association("Tags")
	var err error
	if len(tags) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(tags)
	}
	if err != nil {
		return fmt.Errorf("failed to replace tags of recipe %d: %w", recipe.ID, err)
	}
	return nil
}

// ReplaceIngredients sets the recipe's ingredients to exactly ingredients.
func (r *GORMRecipeRepository) ReplaceIngredients(ctx context.Context, recipe *models.Recipe, ingredients []models.Ingredient) error {
	assoc := r.db.WithContext(ctx).Model(recipe).Association("Ingredients")
	var err error
	if len(ingredients) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(ingredients)
	}
	if err != nil {
		return fmt.Errorf("failed to replace ingredients of recipe %d: %w", recipe.ID, err)
	}
	return nil
}

// Delete removes the recipe and its association rows. Tags and ingredients
// are left in place.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id, userID uint) error {
	recipe, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Model(recipe).Association("Tags").Clear(); err != nil {
		return fmt.Errorf("failed to detach tags of recipe %d: %w", id, err)
	}
	if err := db.Model(recipe).Association("Ingredients").Clear(); err != nil {
		return fmt.Errorf("failed to detach ingredients of recipe %d: %w", id, err)
	}
	if err := db.Delete(&models.Recipe{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}
