// Package product provides the product catalog handlers.
package product

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	categoryctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/category"
	productctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/product"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// Path is the base path of the product pages.
	Path = handler.RootPath + "products"

	// TemplateIndex lists products.
	TemplateIndex = "products/index"
	// TemplateShow shows a product.
	TemplateShow = "products/show"
	// TemplateForm creates and edits a product.
	TemplateForm = "products/form"
)

// Form is the submitted product form. Price and stock are kept as text to re-render rejected input.
type Form struct {
	Name        string `form:"name"        validate:"required,max=255"`
	Description string `form:"description"`
	Price       string `form:"price"       validate:"required,numeric"`
	Stock       string `form:"stock"       validate:"required,number"`
	CategoryID  uint   `form:"category_id"`
}

func (f Form) input() (productctl.Input, form.Errors) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return productctl.Input{}, form.Errors{productctl.FieldPrice: "Price must be a number."}
	}

	stock, err := strconv.ParseUint(f.Stock, 10, 32)
	if err != nil {
		return productctl.Input{}, form.Errors{"stock": "Stock must be at least 0."}
	}

	in := productctl.Input{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		Stock:       uint(stock),
	}

	if f.CategoryID != 0 {
		categoryID := f.CategoryID
		in.CategoryID = &categoryID
	}

	return in, nil
}

func formOf(p *models.Product) Form {
	f := Form{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       strconv.FormatUint(uint64(p.Stock), 10),
	}

	if p.CategoryID != nil {
		f.CategoryID = *p.CategoryID
	}

	return f
}

// Service is the product handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the product handler.
var Handler = Service{}

// Init registers the product routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, auth.RequirePermission(auth.PermProductsView), s.List)
		router.Get("/create", auth.RequirePermission(auth.PermProductsCreate), s.New)
		router.Post(handler.RouterRootPath, auth.RequirePermission(auth.PermProductsCreate), s.Create)
		router.Get("/:id", auth.RequirePermission(auth.PermProductsView), s.Show)
		router.Get("/:id/edit", auth.RequirePermission(auth.PermProductsEdit), s.Edit)

		update := auth.RequirePermission(auth.PermProductsEdit)
		router.Post("/:id", update, s.Update)
		router.Put("/:id", update, s.Update)
		router.Patch("/:id", update, s.Update)

		remove := auth.RequirePermission(auth.PermProductsDelete)
		router.Post("/:id/delete", remove, s.Delete)
		router.Delete("/:id", remove, s.Delete)
	})

	return nil
}

// List shows a page of products, optionally limited to one category.
func (s *Service) List(c *fiber.Ctx) error {
	filter := productctl.Filter{
		PageRequest: handler.PageRequest(c),
		CategoryID:  uint(max(c.QueryInt("category", 0), 0)),
	}

	products, page, err := productctl.List(s.db, filter)
	if err != nil {
		return handler.Fail(c, err)
	}

	categories, err := categoryctl.All(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateIndex,
		navigation.Page("Products", navigation.ModuleProducts, "index"),
		fiber.Map{
			"Products":   products,
			"Page":       page,
			"Categories": categories,
			"Category":   filter.CategoryID,
		})
}

// Show shows a product.
func (s *Service) Show(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	product, err := productctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateShow,
		navigation.Page(product.Name, navigation.ModuleProducts, "show", navigation.Link("Products", Path)),
		fiber.Map{"Product": product})
}

// New shows the create form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, 0, Form{Stock: "0"}, nil)
}

// Create stores a new product.
func (s *Service) Create(c *fiber.Ctx) error {
	in, f, errs, err := s.bind(c)
	if err != nil {
		return err
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, errs)
	}

	product, err := productctl.Create(s.db, in)
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint("product_id", product.ID).Msg("product created")

	return handler.Success(c, "Product created successfully.", Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	product, err := productctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return s.renderForm(c, fiber.StatusOK, id, formOf(product), nil)
}

// Update stores the changes of a product.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	in, f, errs, err := s.bind(c)
	if err != nil {
		return err
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, errs)
	}

	_, err = productctl.Update(s.db, id, in)
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, "Product updated successfully.", Path)
}

// Delete removes a product.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err = productctl.Delete(s.db, id); err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, "Product deleted successfully.", Path)
}

func (s *Service) bind(c *fiber.Ctx) (productctl.Input, Form, form.Errors, error) {
	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return productctl.Input{}, f, nil, fiber.ErrBadRequest
	}

	if errs.Any() {
		return productctl.Input{}, f, errs, nil
	}

	in, errs := f.input()

	return in, f, errs, nil
}

func (s *Service) renderForm(c *fiber.Ctx, status int, id uint, f Form, errs form.Errors) error {
	categories, err := categoryctl.All(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	title, action := "Create Product", Path
	if id != 0 {
		title, action = "Edit Product", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	return handler.Render(c, status, TemplateForm,
		navigation.Page(title, navigation.ModuleProducts, "form", navigation.Link("Products", Path)),
		fiber.Map{
			"Form":       f,
			"Errors":     errs,
			"Categories": categories,
			"IsCreate":   id == 0,
			"Action":     action,
		})
}
