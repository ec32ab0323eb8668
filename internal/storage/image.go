package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder

	domainerrors "recipeapi/internal/errors"
)

// DetectImage fully decodes data and returns its MIME type. Anything that is
// not a complete jpeg, png, gif or webp image is a validation error.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domainerrors.Validation("the submitted file is empty")
	}
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", domainerrors.Validation(
			"upload a valid image: the file you uploaded was either not an image or a corrupted image",
		).WithCause(err)
	}
	return fmt.Sprintf("image/%s", format), nil
}
