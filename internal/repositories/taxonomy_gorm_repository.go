package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
)

// GORMTaxonomyRepository implements TaxonomyRepository for any entry type
// stored with user_id and name columns and linked to recipes through a join
// table.
type GORMTaxonomyRepository[T any] struct {
	db         *gorm.DB
	kind       string
	joinTable  string
	joinColumn string
	newEntry   func(userID uint, name string) *T
}

// NewGORMTagRepository creates a TagRepository backed by gorm.
func NewGORMTagRepository(db *gorm.DB) *GORMTaxonomyRepository[models.Tag] {
	return &GORMTaxonomyRepository[models.Tag]{
		db:         db,
		kind:       "tag",
		joinTable:  models.RecipeTagsTable,
		joinColumn: "tag_id",
		newEntry:   models.NewTag,
	}
}

// NewGORMIngredientRepository creates an IngredientRepository backed by gorm.
func NewGORMIngredientRepository(db *gorm.DB) *GORMTaxonomyRepository[models.Ingredient] {
	return &GORMTaxonomyRepository[models.Ingredient]{
		db:         db,
		kind:       "ingredient",
		joinTable:  models.RecipeIngredientsTable,
		joinColumn: "ingredient_id",
		newEntry:   models.NewIngredient,
	}
}

func (r *GORMTaxonomyRepository[T]) Create(ctx context.Context, entry *T) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.kind, err)
	}
	return nil
}

func (r *GORMTaxonomyRepository[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if assignedOnly {
		// IN over the join table yields each entry once however many
		// recipes reference it.
		query = query.Where("id IN (?)", r.db.Table(r.joinTable).Select(r.joinColumn))
	}

	entries := make([]T, 0)
	if err := query.Order("name DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.kind, err)
	}
	return entries, nil
}

func (r *GORMTaxonomyRepository[T]) GetByID(ctx context.Context, id, userID uint) (*T, error) {
	var entry T
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound(fmt.Sprintf("%s with ID %d not found", r.kind, id))
		}
		return nil, fmt.Errorf("failed to get %s by ID %d: %w", r.kind, id, err)
	}
	return &entry, nil
}

func (r *GORMTaxonomyRepository[T]) Rename(ctx context.Context, id, userID uint, name string) (*T, error) {
	entry, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(entry).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename %s %d: %w", r.kind, id, err)
	}
	return r.GetByID(ctx, id, userID)
}

func (r *GORMTaxonomyRepository[T]) Delete(ctx context.Context, id, userID uint) error {
	entry, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	unlink := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.joinTable, r.joinColumn)
	if err := db.Exec(unlink, id).Error; err != nil {
		return fmt.Errorf("failed to detach %s %d from recipes: %w", r.kind, id, err)
	}
	if err := db.Delete(entry).Error; err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.kind, id, err)
	}
	return nil
}

func (r *GORMTaxonomyRepository[T]) GetOrCreate(ctx context.Context, userID uint, name string) (*T, error) {
	var existing T
	err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up %s %q: %w", r.kind, name, err)
	}

	entry := r.newEntry(userID, name)
	if err := r.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
