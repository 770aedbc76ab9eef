package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

// LocalProvider handles email and password authentication against the users table.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate returns the user matching the email and password.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
