package product

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

func TestCreateAndUpdate(t *testing.T) {
	db := setupTestDB(t)

	category := models.Category{Name: "Laptops", Slug: "laptops", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	p, err := Create(db, Input{
		Name:       " Laptop X ",
		Price:      decimal.RequireFromString("1299.999"),
		Stock:      4,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Laptop X", p.Name)
	assert.Equal(t, "1300", p.Price.String())

	got, err := Get(db, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Laptops", got.Category.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(1300)))

	zero := uint(0)
	updated, err := Update(db, p.ID, Input{Name: "Laptop Y", Price: decimal.RequireFromString("10.50"), CategoryID: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Zero(t, updated.Stock)

	_, err = Update(db, 404, Input{Name: "x"})
	assert.ErrorIs(t, err, controller.ErrNotFound)
}

func TestCreate_Validation(t *testing.T) {
	db := setupTestDB(t)
	missing := uint(77)

	testCases := []struct {
		name  string
		in    Input
		field string
		err   error
	}{
		{"empty name", Input{Name: ""}, FieldName, controller.ErrRequired},
		{"negative price", Input{Name: "x", Price: decimal.NewFromInt(-1)}, FieldPrice, controller.ErrNegative},
		{"price above column range", Input{Name: "x", Price: decimal.NewFromInt(100000000)}, FieldPrice, controller.ErrTooLarge},
		{"price with three decimals", Input{Name: "x", Price: decimal.RequireFromString("1.005")}, FieldPrice, controller.ErrTooPrecise},
		{"unknown category", Input{Name: "x", CategoryID: &missing}, FieldCategory, controller.ErrUnknownReference},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(db, tc.in)

			fe, ok := controller.AsFieldError(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, fe.Field)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCreate_MaxPrice(t *testing.T) {
	db := setupTestDB(t)

	p, err := Create(db, Input{Name: "Top shelf", Price: MaxPrice})
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", p.Price.StringFixed(2))
}

func TestListDeleteAndInventoryValue(t *testing.T) {
	db := setupTestDB(t)

	category := models.Category{Name: "Books", Slug: "books", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	for _, in := range []Input{
		{Name: "Go in Action", Price: decimal.RequireFromString("30.00"), Stock: 2, CategoryID: &category.ID},
		{Name: "Desk Lamp", Price: decimal.RequireFromString("12.50"), Stock: 4},
		{Name: "Go Programming", Price: decimal.RequireFromString("45.25"), Stock: 0, CategoryID: &category.ID},
	} {
		_, err := Create(db, in)
		require.NoError(t, err)
	}

	products, page, err := List(db, Filter{PageRequest: controller.PageRequest{Search: "go"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)
	assert.Equal(t, "Go Programming", products[0].Name)

	products, _, err = List(db, Filter{CategoryID: category.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	value, err := InventoryValue(db)
	require.NoError(t, err)
	assert.Equal(t, "110", value.String())

	require.NoError(t, Delete(db, products[0].ID))
	assert.ErrorIs(t, Delete(db, products[0].ID), controller.ErrNotFound)
}
