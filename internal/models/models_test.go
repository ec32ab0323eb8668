package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
		{"  padded@Example.com ", "padded@example.com"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in), tt.in)
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "test@example.com", User{Email: "test@example.com"}.String())
	assert.Equal(t, "Tag1", NewTag(1, "Tag1").String())
	assert.Equal(t, "Ingredient1", NewIngredient(1, "Ingredient1").String())
	assert.Equal(t, "Sample recipe name", Recipe{Title: "Sample recipe name", Price: decimal.RequireFromString("5.00")}.String())
}
