package models

import "time"

// Role represents a named bundle of permissions in the role-based access control (RBAC) system.
// A role also carries the navigation module order shown to its users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "Super Admin", "Editor").
	Name string `gorm:"uniqueIndex;size:255;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:500"`
	// Permissions granted by this role, joined through role_permission.
	Permissions []Permission `gorm:"many2many:role_permission;"`
	// ModuleOrders defines the navigation order for users whose first role is this role.
	ModuleOrders []RoleModuleOrder `gorm:"foreignKey:RoleID"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// PermissionIDs returns the IDs of the loaded permissions.
func (r *Role) PermissionIDs() []uint {
	ids := make([]uint, 0, len(r.Permissions))
	for i := range r.Permissions {
		ids = append(ids, r.Permissions[i].ID)
	}

	return ids
}
