package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Deleting its category detaches the product instead of deleting it.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null;index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       uint            `gorm:"not null"`
	CategoryID  *uint           `gorm:"index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}
