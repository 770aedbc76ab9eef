// Package models contains the gorm models of the admin application.
package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&RolePermission{},
		&RoleModuleOrder{},
		&User{},
		&UserRole{},
		&Category{},
		&Product{},
	}
}
