// Package permission provides transactional CRUD operations for permissions.
package permission

import (
	"strings"

	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

const (
	// FieldName is the input field of the permission name.
	FieldName = "name"

	// PageSize is the default list page size.
	PageSize = 15

	orderModuleAction = "module ASC, action ASC"
)

// Input holds the editable attributes of a permission.
type Input struct {
	Name        string
	Module      string
	Action      string
	DisplayName string
	Description string
}

// Group is the set of permissions of one module.
type Group struct {
	Module      string
	Permissions []models.Permission
}

// List returns a page of permissions ordered by module and action.
func List(db *gorm.DB, req controller.PageRequest) ([]models.Permission, controller.Page, error) {
	if db == nil {
		return nil, controller.Page{}, controller.ErrDBNil
	}

	req = req.Normalize(PageSize)

	base := db.Model(&models.Permission{})
	if req.Search != "" {
		like := controller.Like(req.Search)
		base = base.Where("LOWER(name) LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(module) LIKE ?", like, like, like)
	}

	var permissions []models.Permission

	page, err := controller.Paginate(base, req, orderModuleAction, &permissions)
	if err != nil {
		return nil, controller.Page{}, err
	}

	return permissions, page, nil
}

// All returns every permission ordered by module and action.
func All(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var permissions []models.Permission
	if err := db.Order(orderModuleAction).Find(&permissions).Error; err != nil {
		return nil, err
	}

	return permissions, nil
}

// Grouped returns every permission grouped by module, modules in first-seen order.
func Grouped(db *gorm.DB) ([]Group, error) {
	permissions, err := All(db)
	if err != nil {
		return nil, err
	}

	return GroupByModule(permissions), nil
}

// GroupByModule groups permissions by module, keeping the input order.
func GroupByModule(permissions []models.Permission) []Group {
	var (
		groups []Group
		index  = make(map[string]int)
	)

	for _, p := range permissions {
		i, ok := index[p.Module]
		if !ok {
			i = len(groups)
			index[p.Module] = i
			groups = append(groups, Group{Module: p.Module})
		}

		groups[i].Permissions = append(groups[i].Permissions, p)
	}

	return groups
}

// Get returns the permission with id.
func Get(db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var permission models.Permission
	if err := db.First(&permission, id).Error; err != nil {
		return nil, controller.NotFound(err)
	}

	return &permission, nil
}

// Roles returns the roles the permission is assigned to, ordered by name.
func Roles(db *gorm.DB, id uint) ([]models.Role, error) {
	var roles []models.Role

	err := db.Joins("JOIN role_permission ON role_permission.role_id = roles.id").
		Where("role_permission.permission_id = ?", id).
		Order("roles.name ASC").
		Find(&roles).Error

	return roles, err
}

// Create validates and stores a new permission.
func Create(db *gorm.DB, in Input) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)
	permission := &models.Permission{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := check(tx, 0, in); err != nil {
			return err
		}

		apply(permission, in)

		return tx.Create(permission).Error
	})
	if err != nil {
		return nil, err
	}

	return permission, nil
}

// Update validates and stores changes of the permission with id.
func Update(db *gorm.DB, id uint, in Input) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)

	var permission models.Permission

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&permission, id).Error; err != nil {
			return controller.NotFound(err)
		}

		if err := check(tx, id, in); err != nil {
			return err
		}

		apply(&permission, in)

		return tx.Save(&permission).Error
	})
	if err != nil {
		return nil, err
	}

	return &permission, nil
}

// Delete removes a permission that no role references.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var permission models.Permission
		if err := tx.First(&permission, id).Error; err != nil {
			return controller.NotFound(err)
		}

		var assigned int64
		if err := tx.Model(&models.RolePermission{}).Where("permission_id = ?", id).
			Count(&assigned).Error; err != nil {
			return err
		}

		if assigned > 0 {
			return controller.NewIntegrityError(controller.ErrPermissionAssigned)
		}

		return tx.Delete(&models.Permission{}, id).Error
	})
}

func check(tx *gorm.DB, id uint, in Input) error {
	required := []struct{ field, value string }{
		{FieldName, in.Name},
		{"module", in.Module},
		{"action", in.Action},
		{"display_name", in.DisplayName},
	}

	for _, r := range required {
		if r.value == "" {
			return controller.NewFieldError(r.field, controller.ErrRequired)
		}
	}

	return controller.Unique(tx, &models.Permission{}, FieldName, in.Name, id)
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Module = strings.TrimSpace(in.Module)
	in.Action = strings.TrimSpace(in.Action)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Description = strings.TrimSpace(in.Description)

	return in
}

func apply(permission *models.Permission, in Input) {
	permission.Name = in.Name
	permission.Module = in.Module
	permission.Action = in.Action
	permission.DisplayName = in.DisplayName
	permission.Description = in.Description
}
