package models

// UserRole is one (user, role) pair of the user to role association set.
type UserRole struct {
	// UserID is the ID of the user in this mapping.
	UserID uint `gorm:"primaryKey;column:user_id"`
	// RoleID is the ID of the role in this mapping.
	RoleID uint `gorm:"primaryKey;column:role_id;index"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_role"
}
