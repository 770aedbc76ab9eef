// Package user provides transactional CRUD operations for user accounts and their roles.
package user

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

const (
	// FieldName is the input field of the user name.
	FieldName = "name"
	// FieldEmail is the input field of the email address.
	FieldEmail = "email"
	// FieldPassword is the input field of the password.
	FieldPassword = "password"
	// FieldRoles is the input field of the role set.
	FieldRoles = "roles"

	// PageSize is the default list page size.
	PageSize = 10
)

// Input holds the editable attributes of a user. An empty Password keeps the current one on update.
type Input struct {
	Name     string
	Email    string
	Password string
	RoleIDs  []uint
}

// List returns a page of users with their roles, newest first.
func List(db *gorm.DB, req controller.PageRequest) ([]models.User, controller.Page, error) {
	if db == nil {
		return nil, controller.Page{}, controller.ErrDBNil
	}

	req = req.Normalize(PageSize)

	base := db.Model(&models.User{})
	if req.Search != "" {
		like := controller.Like(req.Search)
		base = base.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User

	page, err := controller.Paginate(base, req, "id DESC", &users, "Roles")
	if err != nil {
		return nil, controller.Page{}, err
	}

	return users, page, nil
}

// Get returns the user with id and its roles.
func Get(db *gorm.DB, id uint) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var user models.User

	err := db.Preload("Roles", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("roles.id ASC")
	}).First(&user, id).Error
	if err != nil {
		return nil, controller.NotFound(err)
	}

	return &user, nil
}

// Count returns the number of users.
func Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error

	return count, err
}

// Create validates and stores a new user and its role set.
func Create(db *gorm.DB, in Input) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)
	if in.Password == "" {
		return nil, controller.NewFieldError(FieldPassword, controller.ErrRequired)
	}

	user := &models.User{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := check(tx, 0, in); err != nil {
			return err
		}

		hash, err := models.HashPassword(in.Password)
		if err != nil {
			return err
		}

		user.Name = in.Name
		user.Email = in.Email
		user.Password = hash

		if err = tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}

		return ReplaceRoles(tx, user.ID, in.RoleIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, user.ID)
}

// Update validates and stores changes of the user with id and replaces its role set.
func Update(db *gorm.DB, id uint, in Input) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return controller.NotFound(err)
		}

		if err := check(tx, id, in); err != nil {
			return err
		}

		user.Name = in.Name
		user.Email = in.Email

		if in.Password != "" {
			hash, err := models.HashPassword(in.Password)
			if err != nil {
				return err
			}

			user.Password = hash
		}

		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}

		return ReplaceRoles(tx, id, in.RoleIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes the user with id. actorID is the user performing the deletion and may not
// delete their own account.
func Delete(db *gorm.DB, id, actorID uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if id == actorID {
		return controller.NewIntegrityError(controller.ErrDeleteSelf)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return controller.NotFound(err)
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// ReplaceRoles replaces the role set of the user.
func ReplaceRoles(tx *gorm.DB, userID uint, roleIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
		return err
	}

	ids := controller.UniqueIDs(roleIDs)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.UserRole, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.UserRole{UserID: userID, RoleID: id})
	}

	return tx.Create(&rows).Error
}

func check(tx *gorm.DB, id uint, in Input) error {
	if in.Name == "" {
		return controller.NewFieldError(FieldName, controller.ErrRequired)
	}

	if in.Email == "" {
		return controller.NewFieldError(FieldEmail, controller.ErrRequired)
	}

	if err := controller.Unique(tx, &models.User{}, FieldEmail, in.Email, id); err != nil {
		return err
	}

	return controller.Exist(tx, &models.Role{}, FieldRoles, in.RoleIDs)
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	return in
}
