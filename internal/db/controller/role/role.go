// Package role provides transactional CRUD operations for roles, their permission set
// and their navigation module order.
package role

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

const (
	// FieldName is the input field of the role name.
	FieldName = "name"
	// FieldPermissions is the input field of the permission set.
	FieldPermissions = "permissions"
	// FieldModuleOrder is the input field of the module order.
	FieldModuleOrder = "module_order"

	// PageSize is the default list page size.
	PageSize = 10
)

// ModuleOrder positions one navigation module.
type ModuleOrder struct {
	Module string
	Order  int
}

// Input holds the editable attributes of a role.
type Input struct {
	Name          string
	Description   string
	PermissionIDs []uint
	ModuleOrder   []ModuleOrder
}

// Row is a role together with the number of users assigned to it.
type Row struct {
	models.Role
	UsersCount int64
}

// List returns a page of roles with their user counts, ordered by name.
func List(db *gorm.DB, req controller.PageRequest) ([]Row, controller.Page, error) {
	if db == nil {
		return nil, controller.Page{}, controller.ErrDBNil
	}

	req = req.Normalize(PageSize)

	base := db.Model(&models.Role{})
	if req.Search != "" {
		like := controller.Like(req.Search)
		base = base.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var roles []models.Role

	page, err := controller.Paginate(base, req, "name ASC", &roles, "Permissions")
	if err != nil {
		return nil, controller.Page{}, err
	}

	counts, err := usersCounts(db, roles)
	if err != nil {
		return nil, controller.Page{}, err
	}

	rows := make([]Row, 0, len(roles))
	for i := range roles {
		rows = append(rows, Row{Role: roles[i], UsersCount: counts[roles[i].ID]})
	}

	return rows, page, nil
}

// All returns every role ordered by name.
func All(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var roles []models.Role
	if err := db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Get returns a role with its permissions and its module order sorted by position.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var role models.Role

	err := db.
		Preload("Permissions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("module ASC, action ASC")
		}).
		Preload("ModuleOrders", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
		}).
		First(&role, id).Error
	if err != nil {
		return nil, controller.NotFound(err)
	}

	return &role, nil
}

// UsersCount returns the number of users assigned to the role.
func UsersCount(db *gorm.DB, id uint) (int64, error) {
	var count int64
	err := db.Model(&models.UserRole{}).Where("role_id = ?", id).Count(&count).Error

	return count, err
}

// Create validates and stores a new role with its permission set and module order.
func Create(db *gorm.DB, in Input) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)
	role := &models.Role{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := check(tx, 0, in); err != nil {
			return err
		}

		role.Name = in.Name
		role.Description = in.Description

		if err := tx.Omit(clause.Associations).Create(role).Error; err != nil {
			return err
		}

		return replaceAssociations(tx, role.ID, in)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, role.ID)
}

// Update validates and stores changes of the role with id. The permission set and the
// module order are replaced as a whole.
func Update(db *gorm.DB, id uint, in Input) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)

	err := db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			return controller.NotFound(err)
		}

		if err := check(tx, id, in); err != nil {
			return err
		}

		role.Name = in.Name
		role.Description = in.Description

		if err := tx.Omit(clause.Associations).Save(&role).Error; err != nil {
			return err
		}

		return replaceAssociations(tx, id, in)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes a role that no user is assigned to, together with its associations.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			return controller.NotFound(err)
		}

		users, err := UsersCount(tx, id)
		if err != nil {
			return err
		}

		if users > 0 {
			return controller.NewIntegrityError(controller.ErrRoleAssigned)
		}

		if err = tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		if err = tx.Where("role_id = ?", id).Delete(&models.RoleModuleOrder{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, id).Error
	})
}

// ReplacePermissions replaces the permission set of the role.
func ReplacePermissions(tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
		return err
	}

	ids := controller.UniqueIDs(permissionIDs)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.RolePermission, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.RolePermission{RoleID: roleID, PermissionID: id})
	}

	return tx.Create(&rows).Error
}

// ReplaceModuleOrder deletes the module order of the role and inserts orders.
func ReplaceModuleOrder(tx *gorm.DB, roleID uint, orders []ModuleOrder) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleModuleOrder{}).Error; err != nil {
		return err
	}

	if len(orders) == 0 {
		return nil
	}

	rows := make([]models.RoleModuleOrder, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, models.RoleModuleOrder{RoleID: roleID, Module: o.Module, Order: o.Order})
	}

	return tx.Create(&rows).Error
}

func replaceAssociations(tx *gorm.DB, roleID uint, in Input) error {
	if err := ReplacePermissions(tx, roleID, in.PermissionIDs); err != nil {
		return err
	}

	return ReplaceModuleOrder(tx, roleID, in.ModuleOrder)
}

func check(tx *gorm.DB, id uint, in Input) error {
	if in.Name == "" {
		return controller.NewFieldError(FieldName, controller.ErrRequired)
	}

	if err := controller.Unique(tx, &models.Role{}, FieldName, in.Name, id); err != nil {
		return err
	}

	if len(controller.UniqueIDs(in.PermissionIDs)) == 0 {
		return controller.NewFieldError(FieldPermissions, controller.ErrRequired)
	}

	if err := controller.Exist(tx, &models.Permission{}, FieldPermissions, in.PermissionIDs); err != nil {
		return err
	}

	return checkModuleOrder(in.ModuleOrder)
}

func checkModuleOrder(orders []ModuleOrder) error {
	if len(orders) == 0 {
		return controller.NewFieldError(FieldModuleOrder, controller.ErrRequired)
	}

	seen := make(map[string]struct{}, len(orders))

	for _, o := range orders {
		if o.Module == "" {
			return controller.NewFieldError(FieldModuleOrder, controller.ErrRequired)
		}

		if o.Order < 1 {
			return controller.NewFieldError(FieldModuleOrder, controller.ErrOutOfRange)
		}

		if _, dup := seen[o.Module]; dup {
			return controller.NewFieldError(FieldModuleOrder, controller.ErrDuplicateEntry)
		}

		seen[o.Module] = struct{}{}
	}

	return nil
}

func usersCounts(db *gorm.DB, roles []models.Role) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(roles))
	if len(roles) == 0 {
		return counts, nil
	}

	ids := make([]uint, 0, len(roles))
	for i := range roles {
		ids = append(ids, roles[i].ID)
	}

	var rows []struct {
		RoleID uint
		Total  int64
	}

	err := db.Model(&models.UserRole{}).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ?", ids).
		Group("role_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.RoleID] = r.Total
	}

	return counts, nil
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	for i := range in.ModuleOrder {
		in.ModuleOrder[i].Module = strings.TrimSpace(in.ModuleOrder[i].Module)
	}

	return in
}
