package services

import (
	"context"
	"strings"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/repositories"
)

// resolveNames maps each name to the user's existing taxonomy entry with that
// exact name, creating the entry when there is none. Repeated names resolve
// once, in first-seen order. Run it inside the transaction that writes the
// recipe so a failure leaves no new entries behind.
func resolveNames[T any](ctx context.Context, repo repositories.TaxonomyRepository[T], userID uint, names []string) ([]T, error) {
	resolved := make([]T, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, domainerrors.Validation("name must not be blank")
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		entry, err := repo.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, *entry)
	}
	return resolved, nil
}

// replaceAssociations resolves the requested tag and ingredient names and
// swaps them in as the recipe's full sets. A nil list leaves that set as it
// is; an empty list clears it.
func replaceAssociations(ctx context.Context, tx repositories.Store, recipeID, userID uint, tagNames, ingredientNames []string) error {
	if tagNames == nil && ingredientNames == nil {
		return nil
	}

	recipe, err := tx.Recipes().GetByID(ctx, recipeID, userID)
	if err != nil {
		return err
	}

	if tagNames != nil {
		tags, err := resolveNames(ctx, tx.Tags(), userID, tagNames)
		if err != nil {
			return err
		}
		if err := tx.Recipes().ReplaceTags(ctx, recipe, tags); err != nil {
			return err
		}
	}

	if ingredientNames != nil {
		ingredients, err := resolveNames(ctx, tx.Ingredients(), userID, ingredientNames)
		if err != nil {
			return err
		}
		if err := tx.Recipes().ReplaceIngredients(ctx, recipe, ingredients); err != nil {
			return err
		}
	}
	return nil
}
