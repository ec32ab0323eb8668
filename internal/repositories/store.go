package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories that share one database handle. Writes that
// touch several repositories go through Transaction so they commit together.
type Store interface {
	Users() UserRepository
	Tags() TagRepository
	Ingredients() IngredientRepository
	Recipes() RecipeRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is the gorm implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store over db. db may itself be a transaction.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Users() UserRepository {
	return NewGORMUserRepository(s.db)
}

func (s *GORMStore) Tags() TagRepository {
	return NewGORMTagRepository(s.db)
}

func (s *GORMStore) Ingredients() IngredientRepository {
	return NewGORMIngredientRepository(s.db)
}

func (s *GORMStore) Recipes() RecipeRepository {
	return NewGORMRecipeRepository(s.db)
}

// Transaction runs fn against a Store bound to a single database transaction.
// The transaction is rolled back when fn returns an error or panics.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
