package repositories_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipeapi/internal/database"
	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

func setupStore(t *testing.T) (*repositories.GORMStore, *gorm.DB) {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return repositories.NewGORMStore(db), db
}

func createUser(t *testing.T, store repositories.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash", IsActive: true}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func createRecipe(t *testing.T, store repositories.Store, userID uint, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: 5,
		Price:       decimal.RequireFromString("5.50"),
	}
	require.NoError(t, store.Recipes().Create(context.Background(), recipe))
	return recipe
}

func TestUserRepository(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "test@example.com")

	found, err := store.Users().GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = store.Users().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	found.Name = "Renamed"
	require.NoError(t, store.Users().Update(ctx, found))
	reloaded, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
}

func TestUserRepository_DuplicateEmailIsAlreadyExists(t *testing.T) {
	store, _ := setupStore(t)
	createUser(t, store, "test@example.com")

	err := store.Users().Create(context.Background(), &models.User{Email: "test@example.com", Password: "x", IsActive: true})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestTagRepository_ListOrderedAndScoped(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")
	other := createUser(t, store, "other@example.com")

	require.NoError(t, store.Tags().Create(ctx, models.NewTag(user.ID, "Dessert")))
	require.NoError(t, store.Tags().Create(ctx, models.NewTag(user.ID, "Fruity")))
	require.NoError(t, store.Tags().Create(ctx, models.NewTag(other.ID, "Vegan")))

	tags, err := store.Tags().List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Fruity", tags[0].Name)
	assert.Equal(t, "Dessert", tags[1].Name)
}

func TestTagRepository_AssignedOnlyIsDistinct(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")

	dessert := models.NewTag(user.ID, "Dessert")
	spicy := models.NewTag(user.ID, "Spicy")
	require.NoError(t, store.Tags().Create(ctx, dessert))
	require.NoError(t, store.Tags().Create(ctx, spicy))

	cake := createRecipe(t, store, user.ID, "Cake")
	biryani := createRecipe(t, store, user.ID, "Biryani")
	require.NoError(t, store.Recipes().ReplaceTags(ctx, cake, []models.Tag{*dessert}))
	require.NoError(t, store.Recipes().ReplaceTags(ctx, biryani, []models.Tag{*dessert}))

	tags, err := store.Tags().List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, dessert.ID, tags[0].ID)
}

func TestTagRepository_OwnershipIsNotFound(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")
	other := createUser(t, store, "other@example.com")

	tag := models.NewTag(other.ID, "Sweet")
	require.NoError(t, store.Tags().Create(ctx, tag))

	_, err := store.Tags().Rename(ctx, tag.ID, user.ID, "Sour")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	err = store.Tags().Delete(ctx, tag.ID, user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	unchanged, err := store.Tags().GetByID(ctx, tag.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweet", unchanged.Name)
}

func TestTagRepository_RenameAndDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")

	tag := models.NewTag(user.ID, "Sweet")
	require.NoError(t, store.Tags().Create(ctx, tag))
	recipe := createRecipe(t, store, user.ID, "Pie")
	require.NoError(t, store.Recipes().ReplaceTags(ctx, recipe, []models.Tag{*tag}))

	renamed, err := store.Tags().Rename(ctx, tag.ID, user.ID, "Fruity")
	require.NoError(t, err)
	assert.Equal(t, "Fruity", renamed.Name)

	require.NoError(t, store.Tags().Delete(ctx, tag.ID, user.ID))
	_, err = store.Tags().GetByID(ctx, tag.ID, user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	reloaded, err := store.Recipes().GetByID(ctx, recipe.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Tags)
}

func TestIngredientRepository_GetOrCreate(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")
	other := createUser(t, store, "other@example.com")

	salt := models.NewIngredient(other.ID, "Salt")
	require.NoError(t, store.Ingredients().Create(ctx, salt))

	first, err := store.Ingredients().GetOrCreate(ctx, user.ID, "Salt")
	require.NoError(t, err)
	assert.NotEqual(t, salt.ID, first.ID)
	assert.Equal(t, user.ID, first.UserID)

	second, err := store.Ingredients().GetOrCreate(ctx, user.ID, "Salt")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	lower, err := store.Ingredients().GetOrCreate(ctx, user.ID, "salt")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, lower.ID)

	all, err := store.Ingredients().List(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecipeRepository_ScopedGetAndList(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")
	other := createUser(t, store, "other@example.com")

	first := createRecipe(t, store, user.ID, "First")
	second := createRecipe(t, store, user.ID, "Second")
	foreign := createRecipe(t, store, other.ID, "Foreign")

	recipes, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)

	_, err = store.Recipes().GetByID(ctx, foreign.ID, user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := store.Recipes().GetByID(ctx, first.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5.50").Equal(got.Price))
	assert.Equal(t, "5.50", got.Price.StringFixed(2))
}

func TestRecipeRepository_FilterByTagsAndIngredients(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")

	r1 := createRecipe(t, store, user.ID, "Chicken Kofte")
	r2 := createRecipe(t, store, user.ID, "Biryani")
	r3 := createRecipe(t, store, user.ID, "Aloo Matter")

	t1 := models.NewTag(user.ID, "Spicy")
	t2 := models.NewTag(user.ID, "Masala dar")
	require.NoError(t, store.Tags().Create(ctx, t1))
	require.NoError(t, store.Tags().Create(ctx, t2))
	require.NoError(t, store.Recipes().ReplaceTags(ctx, r1, []models.Tag{*t1, *t2}))
	require.NoError(t, store.Recipes().ReplaceTags(ctx, r2, []models.Tag{*t2}))

	i1 := models.NewIngredient(user.ID, "Chicken")
	require.NoError(t, store.Ingredients().Create(ctx, i1))
	require.NoError(t, store.Recipes().ReplaceIngredients(ctx, r2, []models.Ingredient{*i1}))
	require.NoError(t, store.Recipes().ReplaceIngredients(ctx, r3, []models.Ingredient{*i1}))

	byTags, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{TagIDs: []uint{t1.ID, t2.ID}})
	require.NoError(t, err)
	assert.Equal(t, []uint{r2.ID, r1.ID}, recipeIDs(byTags))

	both, err := store.Recipes().List(ctx, user.ID, repositories.RecipeFilter{
		TagIDs:        []uint{t1.ID, t2.ID},
		IngredientIDs: []uint{i1.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{r2.ID}, recipeIDs(both))
}

func TestRecipeRepository_UpdateAndDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")
	recipe := createRecipe(t, store, user.ID, "Cake")

	salt := models.NewIngredient(user.ID, "Salt")
	require.NoError(t, store.Ingredients().Create(ctx, salt))
	require.NoError(t, store.Recipes().ReplaceIngredients(ctx, recipe, []models.Ingredient{*salt}))

	require.NoError(t, store.Recipes().Update(ctx, recipe.ID, user.ID, map[string]any{
		"title":        "Better Cake",
		"time_minutes": 0,
	}))
	got, err := store.Recipes().GetByID(ctx, recipe.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better Cake", got.Title)
	assert.Equal(t, 0, got.TimeMinutes)
	require.Len(t, got.Ingredients, 1)

	require.NoError(t, store.Recipes().ReplaceIngredients(ctx, got, nil))
	got, err = store.Recipes().GetByID(ctx, recipe.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Ingredients)

	require.NoError(t, store.Recipes().Delete(ctx, recipe.ID, user.ID))
	_, err = store.Recipes().GetByID(ctx, recipe.ID, user.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = store.Ingredients().GetByID(ctx, salt.ID, user.ID)
	assert.NoError(t, err, "ingredients outlive the recipes that used them")
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	user := createUser(t, store, "user@example.com")

	err := store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Tags().Create(ctx, models.NewTag(user.ID, "Ghost")); err != nil {
			return err
		}
		return domainerrors.Validation("abort")
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func recipeIDs(recipes []models.Recipe) []uint {
	ids := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
