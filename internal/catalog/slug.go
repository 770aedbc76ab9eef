package catalog

import (
	"strings"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

// DeriveSlug lowercases name, replaces every run of characters outside [a-z0-9]
// with a single hyphen and trims leading and trailing hyphens.
func DeriveSlug(name string) string {
	var (
		b       strings.Builder
		pending bool
	)

	b.Grow(len(name))

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}

			pending = false

			b.WriteRune(r)

			continue
		}

		pending = true
	}

	return b.String()
}

// ResolveSlug decides the slug to store for a category mutation.
// previous is nil on create. The slug is derived from name when slug is empty, or when
// the name changed while the submitted slug still equals the stored one.
// Otherwise the submitted slug is kept.
func ResolveSlug(previous *models.Category, name, slug string) string {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)

	if slug == "" {
		return DeriveSlug(name)
	}

	if previous != nil && previous.Name != name && previous.Slug == slug {
		return DeriveSlug(name)
	}

	return slug
}
