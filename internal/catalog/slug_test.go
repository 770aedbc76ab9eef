package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Electronics & Gadgets!!", "electronics-gadgets"},
		{"Gaming Laptops", "gaming-laptops"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Multiple   spaces\tand\nnewlines", "multiple-spaces-and-newlines"},
		{"already-a-slug", "already-a-slug"},
		{"Version 2.0", "version-2-0"},
		{"Café Crème", "caf-cr-me"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := DeriveSlug(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, DeriveSlug(got), "derived slugs map to themselves")
		})
	}
}

func TestResolveSlug(t *testing.T) {
	stored := &models.Category{Name: "Laptops", Slug: "laptops"}
	custom := &models.Category{Name: "Laptops", Slug: "notebooks"}

	tests := []struct {
		name     string
		previous *models.Category
		newName  string
		slug     string
		want     string
	}{
		{"create without slug", nil, "Gaming Laptops", "", "gaming-laptops"},
		{"create with explicit slug", nil, "Gaming Laptops", "gamer", "gamer"},
		{"update clears slug", stored, "Laptops", "", "laptops"},
		{"update renames with untouched slug", stored, "Notebooks", "laptops", "notebooks"},
		{"update renames with touched slug", stored, "Notebooks", "portables", "portables"},
		{"update keeps explicit slug", custom, "Laptops", "notebooks", "notebooks"},
		{"update renames with untouched custom slug", custom, "Ultrabooks", "notebooks", "ultrabooks"},
		{"update only slug", stored, "Laptops", "portable-computers", "portable-computers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSlug(tt.previous, tt.newName, tt.slug))
		})
	}
}
