package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "recipeapi/internal/errors"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := domainerrors.NotFound("recipe 7 not found")

	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	assert.False(t, domainerrors.Is(err, domainerrors.ErrValidation))

	wrapped := fmt.Errorf("get recipe: %w", err)
	assert.True(t, domainerrors.Is(wrapped, domainerrors.ErrNotFound))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := domainerrors.ErrInternal.WithCause(cause)

	assert.Equal(t, "internal error: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, domainerrors.ErrInternal.Unwrap())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domainerrors.Validation("bad"), http.StatusBadRequest},
		{"not found", domainerrors.NotFound("gone"), http.StatusNotFound},
		{"unauthorized", domainerrors.Unauthorized("who"), http.StatusUnauthorized},
		{"already exists", domainerrors.AlreadyExists("dup"), http.StatusConflict},
		{"wrapped", fmt.Errorf("ctx: %w", domainerrors.NotFound("x")), http.StatusNotFound},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domainerrors.Status(tt.err))
		})
	}
}
