// Package product provides transactional CRUD operations for catalog products.
package product

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

const (
	// FieldName is the input field of the product name.
	FieldName = "name"
	// FieldPrice is the input field of the product price.
	FieldPrice = "price"
	// FieldCategory is the input field of the product category.
	FieldCategory = "category_id"

	// PageSize is the default list page size.
	PageSize = 10

	priceScale = 2
)

// MaxPrice is the largest price a decimal(10,2) column holds.
var MaxPrice = decimal.New(9999999999, -priceScale) //nolint:gochecknoglobals

// Input holds the editable attributes of a product.
type Input struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       uint
	CategoryID  *uint
}

// Filter narrows a product list.
type Filter struct {
	controller.PageRequest
	CategoryID uint
}

// List returns a page of products with their category, newest first.
func List(db *gorm.DB, filter Filter) ([]models.Product, controller.Page, error) {
	if db == nil {
		return nil, controller.Page{}, controller.ErrDBNil
	}

	req := filter.Normalize(PageSize)

	base := db.Model(&models.Product{})
	if req.Search != "" {
		base = base.Where("LOWER(name) LIKE ?", controller.Like(req.Search))
	}

	if filter.CategoryID != 0 {
		base = base.Where("category_id = ?", filter.CategoryID)
	}

	var products []models.Product

	page, err := controller.Paginate(base, req, "id DESC", &products, "Category")
	if err != nil {
		return nil, controller.Page{}, err
	}

	return products, page, nil
}

// Get returns a product with its category.
func Get(db *gorm.DB, id uint) (*models.Product, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var product models.Product
	if err := db.Preload("Category").First(&product, id).Error; err != nil {
		return nil, controller.NotFound(err)
	}

	return &product, nil
}

// Create validates and stores a new product.
func Create(db *gorm.DB, in Input) (*models.Product, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)
	product := &models.Product{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := check(tx, in); err != nil {
			return err
		}

		apply(product, in)

		return tx.Omit(clause.Associations).Create(product).Error
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Update validates and stores changes of the product with id.
func Update(db *gorm.DB, id uint, in Input) (*models.Product, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)

	var product models.Product

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return controller.NotFound(err)
		}

		if err := check(tx, in); err != nil {
			return err
		}

		apply(&product, in)

		return tx.Omit(clause.Associations).Save(&product).Error
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// Delete removes the product with id.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	result := db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return controller.ErrNotFound
	}

	return nil
}

// InventoryValue returns the sum of price times stock over all products.
func InventoryValue(db *gorm.DB) (decimal.Decimal, error) {
	var (
		total    = decimal.Zero
		products []models.Product
	)

	if err := db.Select("price", "stock").Find(&products).Error; err != nil {
		return total, err
	}

	for i := range products {
		total = total.Add(products[i].Price.Mul(decimal.NewFromInt(int64(products[i].Stock))))
	}

	return total, nil
}

func check(tx *gorm.DB, in Input) error {
	if in.Name == "" {
		return controller.NewFieldError(FieldName, controller.ErrRequired)
	}

	switch {
	case in.Price.IsNegative():
		return controller.NewFieldError(FieldPrice, controller.ErrNegative)
	case in.Price.GreaterThan(MaxPrice):
		return controller.NewFieldError(FieldPrice, controller.ErrTooLarge)
	case !in.Price.Equal(in.Price.Round(priceScale)):
		return controller.NewFieldError(FieldPrice, controller.ErrTooPrecise)
	}

	if in.CategoryID != nil {
		return controller.Exist(tx, &models.Category{}, FieldCategory, []uint{*in.CategoryID})
	}

	return nil
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}

	return in
}

func apply(product *models.Product, in Input) {
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.CategoryID = in.CategoryID
}
