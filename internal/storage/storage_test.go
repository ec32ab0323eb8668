package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "recipeapi/internal/errors"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRecipeImageKey(t *testing.T) {
	key := RecipeImageKey(".jpg")
	pattern := regexp.MustCompile(`^uploads/recipe/[0-9a-f-]{36}\.jpg$`)
	assert.Regexp(t, pattern, key)
	assert.NotEqual(t, key, RecipeImageKey(".jpg"))
}

func TestDetectImage(t *testing.T) {
	contentType, err := DetectImage(encodePNG(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10)), nil))
	contentType, err = DetectImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	_, err = DetectImage([]byte("hithere"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = DetectImage(nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	truncated := encodePNG(t)
	_, err = DetectImage(truncated[:len(truncated)/2])
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	key := RecipeImageKey(".png")
	require.NoError(t, store.Save(ctx, key, bytes.NewReader(encodePNG(t)), "image/png"))
	assert.FileExists(t, store.Path(key))
	assert.Equal(t, "/media/"+key, store.URL(key))
	assert.True(t, strings.HasPrefix(store.Path(key), store.Root))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(store.Path(key))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, key), "deleting twice is harmless")
}
