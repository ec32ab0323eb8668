// Package storage holds recipe image persistence: the ImageStore contract,
// a filesystem implementation and image payload checks.
package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// RecipeImageDir is the key prefix for recipe images.
const RecipeImageDir = "uploads/recipe"

// ImageStore persists image objects under slash-separated keys.
type ImageStore interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public location of key.
	URL(key string) string
}

// RecipeImageKey returns a fresh key of the form uploads/recipe/<uuid><ext>,
// where ext is the original file extension including its dot.
func RecipeImageKey(ext string) string {
	return path.Join(RecipeImageDir, uuid.NewString()+ext)
}
