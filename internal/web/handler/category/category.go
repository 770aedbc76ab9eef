// Package category provides the handlers managing the category tree.
package category

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	categoryctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/category"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// Path is the base path of the category pages.
	Path = handler.RootPath + "categories"

	// TemplateIndex lists categories.
	TemplateIndex = "categories/index"
	// TemplateShow shows a category.
	TemplateShow = "categories/show"
	// TemplateForm creates and edits a category.
	TemplateForm = "categories/form"
)

// Form is the submitted category form.
type Form struct {
	Name        string `form:"name"        validate:"required,max=255"`
	Slug        string `form:"slug"        validate:"max=255"`
	Description string `form:"description"`
	Image       string `form:"image"       validate:"max=255"`
	IsActive    bool   `form:"is_active"`
	ParentID    uint   `form:"parent_id"`
}

func (f Form) input() categoryctl.Input {
	in := categoryctl.Input{
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		Image:       f.Image,
		IsActive:    f.IsActive,
	}

	if f.ParentID != 0 {
		parentID := f.ParentID
		in.ParentID = &parentID
	}

	return in
}

func formOf(c *models.Category) Form {
	f := Form{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Image:       c.Image,
		IsActive:    c.IsActive,
	}

	if c.ParentID != nil {
		f.ParentID = *c.ParentID
	}

	return f
}

// Service is the category handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the category handler.
var Handler = Service{}

// Init registers the category routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(auth.PermCategoriesView), s.List)
		router.Get("/create", auth.RequirePermission(auth.PermCategoriesCreate), s.New)
		router.Post(handler.RouterRootPath, auth.RequirePermission(auth.PermCategoriesCreate), s.Create)
		router.Get("/:id", auth.RequirePermission(auth.PermCategoriesView), s.Show)
		router.Get("/:id/edit", auth.RequirePermission(auth.PermCategoriesEdit), s.Edit)

		update := auth.RequirePermission(auth.PermCategoriesEdit)
		router.Post("/:id", update, s.Update)
		router.Put("/:id", update, s.Update)
		router.Patch("/:id", update, s.Update)

		remove := auth.RequirePermission(auth.PermCategoriesDelete)
		router.Post("/:id/delete", remove, s.Delete)
		router.Delete("/:id", remove, s.Delete)
	})

	return nil
}

// List shows a page of categories.
func (s *Service) List(c *fiber.Ctx) error {
	categories, page, err := categoryctl.List(s.db, handler.PageRequest(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateIndex,
		navigation.Page("Categories", navigation.ModuleCategories, "index"),
		fiber.Map{
			"Categories": categories,
			"Page":       page,
		})
}

// Show shows a category with its subcategories.
func (s *Service) Show(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	category, err := categoryctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	products, err := categoryctl.ProductCount(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateShow,
		navigation.Page(category.Name, navigation.ModuleCategories, "show", navigation.Link("Categories", Path)),
		fiber.Map{
			"Category":     category,
			"ProductCount": products,
			"CanDelete":    len(category.Children) == 0,
		})
}

// New shows the create form. New categories are active by default.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, 0, Form{IsActive: true}, nil)
}

// Create stores a new category.
func (s *Service) Create(c *fiber.Ctx) error {
	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return fiber.ErrBadRequest
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, errs)
	}

	category, err := categoryctl.Create(s.db, f.input())
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint("category_id", category.ID).Str("slug", category.Slug).Msg("category created")

	return handler.Success(c, "Category created successfully.", Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	category, err := categoryctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return s.renderForm(c, fiber.StatusOK, id, formOf(category), nil)
}

// Update stores the changes of a category, including a move in the tree.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return fiber.ErrBadRequest
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, errs)
	}

	_, err = categoryctl.Update(s.db, id, f.input())
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, "Category updated successfully.", Path)
}

// Delete removes a category without subcategories.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	err = categoryctl.Delete(s.db, id)
	if err != nil {
		return handler.Blocked(c, err, Path)
	}

	return handler.Success(c, "Category deleted successfully.", Path)
}

func (s *Service) renderForm(c *fiber.Ctx, status int, id uint, f Form, errs form.Errors) error {
	parents, err := categoryctl.SelectableParents(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	title, action := "Create Category", Path
	if id != 0 {
		title, action = "Edit Category", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	return handler.Render(c, status, TemplateForm,
		navigation.Page(title, navigation.ModuleCategories, "form", navigation.Link("Categories", Path)),
		fiber.Map{
			"Form":     f,
			"Errors":   errs,
			"Parents":  parents,
			"IsCreate": id == 0,
			"Action":   action,
		})
}
