package models

import "time"

// Permission represents an atomic capability in the authorization system.
// Names follow the module.action convention (e.g., "categories.delete").
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Name is the unique permission identifier in module.action format.
	Name string `gorm:"uniqueIndex;size:255;not null"`
	// Module is the navigation module the permission belongs to (e.g., "products").
	Module string `gorm:"size:100;not null;index"`
	// Action is the action allowed on the module (e.g., "view", "create", "edit", "delete").
	Action string `gorm:"size:100;not null"`
	// DisplayName is the label shown in role forms.
	DisplayName string `gorm:"size:255;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:500"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
