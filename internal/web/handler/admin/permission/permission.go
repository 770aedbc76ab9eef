// Package permission provides handlers for managing permissions.
package permission

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	permissionctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/permission"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// Path is the base path for permission management.
	Path = handler.RootPath + "settings/permissions"

	// TemplateList is the template for listing permissions.
	TemplateList = "settings/permissions/index"
	// TemplateShow is the template for a single permission.
	TemplateShow = "settings/permissions/show"
	// TemplateForm is the template for creating/updating a permission.
	TemplateForm = "settings/permissions/form"
)

// Form is the submitted permission form. An empty name defaults to module.action.
type Form struct {
	Name        string `form:"name"         validate:"max=255"`
	Module      string `form:"module"       validate:"required,max=100"`
	Action      string `form:"action"       validate:"required,max=100"`
	DisplayName string `form:"display_name" validate:"required,max=255"`
	Description string `form:"description"  validate:"max=500"`
}

func (f Form) input() permissionctl.Input {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = strings.TrimSpace(f.Module) + "." + strings.TrimSpace(f.Action)
	}

	return permissionctl.Input{
		Name:        name,
		Module:      f.Module,
		Action:      f.Action,
		DisplayName: f.DisplayName,
		Description: f.Description,
	}
}

// Service provides CRUD operations for permissions.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, auth.RequirePermission(auth.PermPermissionsView), s.List)
	app.Get(Path+"/create", auth.RequirePermission(auth.PermPermissionsCreate), s.New)
	app.Post(Path, auth.RequirePermission(auth.PermPermissionsCreate), s.Create)
	app.Get(Path+"/:id", auth.RequirePermission(auth.PermPermissionsView), s.Show)
	app.Get(Path+"/:id/edit", auth.RequirePermission(auth.PermPermissionsEdit), s.Edit)
	app.Post(Path+"/:id", auth.RequirePermission(auth.PermPermissionsEdit), s.Update)
	app.Put(Path+"/:id", auth.RequirePermission(auth.PermPermissionsEdit), s.Update)
	app.Post(Path+"/:id/delete", auth.RequirePermission(auth.PermPermissionsDelete), s.Delete)
	app.Delete(Path+"/:id", auth.RequirePermission(auth.PermPermissionsDelete), s.Delete)

	return nil
}

// List renders a page of permissions, grouped by module for display.
func (s *Service) List(c *fiber.Ctx) error {
	permissions, page, err := permissionctl.List(s.db, handler.PageRequest(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateList,
		navigation.Page("Permissions", navigation.ModuleSettings, "permissions"),
		fiber.Map{
			"Permissions": permissions,
			"Groups":      permissionctl.GroupByModule(permissions),
			"Page":        page,
		})
}

// Show renders a permission and the roles it is assigned to.
func (s *Service) Show(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	permission, err := permissionctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	roles, err := permissionctl.Roles(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateShow,
		navigation.Page(permission.DisplayName, navigation.ModuleSettings, "permissions",
			navigation.Link("Permissions", Path)),
		fiber.Map{
			"Permission": permission,
			"Roles":      roles,
		})
}

// New renders the create form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, 0, Form{}, nil)
}

// Create handles permission creation.
func (s *Service) Create(c *fiber.Ctx) error {
	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return fiber.ErrBadRequest
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, errs)
	}

	permission, err := permissionctl.Create(s.db, f.input())
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint("permission_id", permission.ID).Str("name", permission.Name).Msg("permission created")

	return handler.Success(c, "Permission created successfully.", Path)
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	p, err := permissionctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	f := Form{
		Name:        p.Name,
		Module:      p.Module,
		Action:      p.Action,
		DisplayName: p.DisplayName,
		Description: p.Description,
	}

	return s.renderForm(c, fiber.StatusOK, id, f, nil)
}

// Update handles permission update.
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

	_, err = permissionctl.Update(s.db, id, f.input())
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, "Permission updated successfully.", Path)
}

// Delete handles permission deletion. Permissions assigned to roles are kept.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err = permissionctl.Delete(s.db, id); err != nil {
		return handler.Blocked(c, err, Path)
	}

	return handler.Success(c, "Permission deleted successfully.", Path)
}

func (s *Service) renderForm(c *fiber.Ctx, status int, id uint, f Form, errs form.Errors) error {
	title, action := "Create Permission", Path
	if id != 0 {
		title, action = "Edit Permission", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	modules := make([]string, 0, len(navigation.Modules()))
	for _, item := range navigation.Modules() {
		modules = append(modules, item.Module)
	}

	return handler.Render(c, status, TemplateForm,
		navigation.Page(title, navigation.ModuleSettings, "permissions", navigation.Link("Permissions", Path)),
		fiber.Map{
			"Form":     f,
			"Errors":   errs,
			"Modules":  modules,
			"IsCreate": id == 0,
			"Action":   action,
		})
}
