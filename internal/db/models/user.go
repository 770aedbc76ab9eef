package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents an administrator account.
// Users receive their permissions exclusively through the roles assigned to them.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the user.
	Name string `gorm:"size:255;not null"`
	// Email is the unique login identifier of the user.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255;not null" json:"-"`
	// EmailVerifiedAt is set once the email address is confirmed (nil if unverified).
	EmailVerifiedAt *time.Time
	// Roles are the roles assigned to the user, joined through user_role.
	Roles []Role `gorm:"many2many:user_role;"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison and returns false on any decoding error.
func (u *User) VerifyPassword(password string) bool {
	if u == nil || u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}

// RoleNames returns the names of the loaded roles in their current order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for i := range u.Roles {
		names = append(names, u.Roles[i].Name)
	}

	return names
}
