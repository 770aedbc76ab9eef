package models

import "time"

// Category is a node of the hierarchical product catalog.
// ParentID is nil for top level categories.
type Category struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"uniqueIndex;size:255;not null"`
	Slug        string     `gorm:"uniqueIndex;size:255;not null"`
	Description string     `gorm:"type:text"`
	Image       string     `gorm:"size:255"`
	IsActive    bool       `gorm:"not null"`
	ParentID    *uint      `gorm:"index"`
	Parent      *Category  `gorm:"foreignKey:ParentID"`
	Children    []Category `gorm:"foreignKey:ParentID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
