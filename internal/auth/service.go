package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

// Service loads principals for authorization.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LoadPrincipal loads the user together with the role graph the evaluator needs.
// Roles are ordered by id so that the first role is stable between requests.
func (s *Service) LoadPrincipal(userID uint) (*models.User, error) {
	var user models.User

	err := s.db.
		Preload("Roles", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("roles.id ASC")
		}).
		Preload("Roles.Permissions").
		Preload("Roles.ModuleOrders").
		First(&user, userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}

	return &user, nil
}

// HasPermission loads the user and checks a single permission.
func (s *Service) HasPermission(userID uint, permission string) (bool, error) {
	user, err := s.LoadPrincipal(userID)
	if err != nil {
		return false, err
	}

	return HasPermission(user, permission), nil
}

// GetUserPermissions returns the sorted permission names of a user.
func (s *Service) GetUserPermissions(userID uint) ([]string, error) {
	user, err := s.LoadPrincipal(userID)
	if err != nil {
		return nil, err
	}

	return PermissionNames(user), nil
}
