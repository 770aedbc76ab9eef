package models

// RoleModuleOrder positions one navigation module for a role.
// The pair (role_id, module) is unique; a role's entries are deleted and reinserted on every edit.
type RoleModuleOrder struct {
	// ID is the unique identifier for the entry.
	ID uint `gorm:"primaryKey"`
	// RoleID is the owning role.
	RoleID uint `gorm:"column:role_id;not null;uniqueIndex:idx_role_module"`
	// Module is the navigation module key (e.g., "dashboard").
	Module string `gorm:"size:100;not null;uniqueIndex:idx_role_module"`
	// Order is the 1-based position of the module.
	Order int `gorm:"column:order;not null"`
}

// TableName specifies the database table name for the RoleModuleOrder model.
func (RoleModuleOrder) TableName() string {
	return "role_module_order"
}
