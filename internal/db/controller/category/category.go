// Package category provides transactional CRUD operations for catalog categories.
package category

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keed0303/ecommerce-starter-app/internal/catalog"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

const (
	// FieldName is the input field of the category name.
	FieldName = "name"
	// FieldSlug is the input field of the category slug.
	FieldSlug = "slug"
	// FieldParent is the input field of the parent category.
	FieldParent = "parent_id"

	// PageSize is the default list page size.
	PageSize = 10
)

// Input holds the editable attributes of a category.
type Input struct {
	Name        string
	Slug        string
	Description string
	Image       string
	IsActive    bool
	ParentID    *uint
}

// Tree loads every category and builds the hierarchy.
func Tree(db *gorm.DB) (*catalog.Tree, error) {
	all, err := All(db)
	if err != nil {
		return nil, err
	}

	return catalog.NewTree(all), nil
}

// All returns every category ordered by name.
func All(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var categories []models.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// List returns a page of categories with their parent, newest first.
func List(db *gorm.DB, req controller.PageRequest) ([]models.Category, controller.Page, error) {
	if db == nil {
		return nil, controller.Page{}, controller.ErrDBNil
	}

	req = req.Normalize(PageSize)

	base := db.Model(&models.Category{})
	if req.Search != "" {
		like := controller.Like(req.Search)
		base = base.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", like, like)
	}

	var categories []models.Category

	page, err := controller.Paginate(base, req, "id DESC", &categories, "Parent")
	if err != nil {
		return nil, controller.Page{}, err
	}

	return categories, page, nil
}

// Get returns a category with its parent and direct children.
func Get(db *gorm.DB, id uint) (*models.Category, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var category models.Category

	err := db.Preload("Parent").
		Preload("Children", func(tx *gorm.DB) *gorm.DB { return tx.Order("name ASC") }).
		First(&category, id).Error
	if err != nil {
		return nil, controller.NotFound(err)
	}

	return &category, nil
}

// SelectableParents returns the parent choices for the category with id (0 for a new category).
func SelectableParents(db *gorm.DB, id uint) ([]models.Category, error) {
	tree, err := Tree(db)
	if err != nil {
		return nil, err
	}

	return tree.SelectableParents(id), nil
}

// ProductCount returns the number of products in the category.
func ProductCount(db *gorm.DB, id uint) (int64, error) {
	var count int64
	err := db.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error

	return count, err
}

// Create validates and stores a new category.
func Create(db *gorm.DB, in Input) (*models.Category, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)
	category := &models.Category{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := check(tx, 0, &in, nil); err != nil {
			return err
		}

		apply(category, in)

		return tx.Omit(clause.Associations).Create(category).Error
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Update validates and stores changes of the category with id.
func Update(db *gorm.DB, id uint, in Input) (*models.Category, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = normalize(in)

	var category models.Category

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return controller.NotFound(err)
		}

		if err := check(tx, id, &in, &category); err != nil {
			return err
		}

		apply(&category, in)

		return tx.Omit(clause.Associations).Save(&category).Error
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// Delete removes a category without subcategories and detaches its products.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return controller.NotFound(err)
		}

		tree, err := Tree(tx)
		if err != nil {
			return err
		}

		if !tree.CanDelete(id) {
			return controller.NewIntegrityError(controller.ErrCategoryHasChildren)
		}

		if err = tx.Model(&models.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Category{}, id).Error
	})
}

// check runs the hierarchy guard and the uniqueness rules and resolves the slug of in.
func check(tx *gorm.DB, id uint, in *Input, previous *models.Category) error {
	if in.Name == "" {
		return controller.NewFieldError(FieldName, controller.ErrRequired)
	}

	tree, err := Tree(tx)
	if err != nil {
		return err
	}

	if err = tree.AssertValidParent(id, in.ParentID); err != nil {
		var pe *catalog.ParentError
		if errors.As(err, &pe) {
			return controller.NewFieldError(FieldParent, pe.Err)
		}

		return err
	}

	in.Slug = catalog.ResolveSlug(previous, in.Name, in.Slug)
	if in.Slug == "" {
		return controller.NewFieldError(FieldSlug, controller.ErrRequired)
	}

	if err = controller.Unique(tx, &models.Category{}, FieldName, in.Name, id); err != nil {
		return err
	}

	return controller.Unique(tx, &models.Category{}, FieldSlug, in.Slug, id)
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.Image = strings.TrimSpace(in.Image)

	if in.ParentID != nil && *in.ParentID == 0 {
		in.ParentID = nil
	}

	return in
}

func apply(category *models.Category, in Input) {
	category.Name = in.Name
	category.Slug = in.Slug
	category.Description = in.Description
	category.Image = in.Image
	category.IsActive = in.IsActive
	category.ParentID = in.ParentID
}
