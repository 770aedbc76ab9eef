// Package role provides handlers for managing roles, their permissions and their
// navigation module order.
package role

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	permissionctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/permission"
	rolectl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/role"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "settings/roles"

	// TemplateList is the template for listing roles.
	TemplateList = "settings/roles/index"
	// TemplateShow is the template for a single role.
	TemplateShow = "settings/roles/show"
	// TemplateForm is the template for creating/updating a role.
	TemplateForm = "settings/roles/form"

	// OrderFieldPrefix prefixes the form field holding the position of a module.
	OrderFieldPrefix = "order_"
)

// Form is the submitted role form. Orders maps a module to its submitted position.
type Form struct {
	Name        string            `form:"name"        validate:"required,max=255"`
	Description string            `form:"description" validate:"max=500"`
	Permissions []uint            `form:"permissions"`
	Orders      map[string]string `form:"-"`
}

// bindOrders reads one order_<module> field per navigation module. Empty fields are skipped.
func (f *Form) bindOrders(c *fiber.Ctx) {
	f.Orders = make(map[string]string)

	for _, item := range navigation.Modules() {
		if v := strings.TrimSpace(c.FormValue(OrderFieldPrefix + item.Module)); v != "" {
			f.Orders[item.Module] = v
		}
	}
}

func (f Form) input() (rolectl.Input, form.Errors) {
	in := rolectl.Input{
		Name:          f.Name,
		Description:   f.Description,
		PermissionIDs: f.Permissions,
	}

	for _, item := range navigation.Modules() {
		v, ok := f.Orders[item.Module]
		if !ok {
			continue
		}

		order, err := strconv.Atoi(v)
		if err != nil {
			return rolectl.Input{}, form.Errors{rolectl.FieldModuleOrder: "Module order must be a number."}
		}

		in.ModuleOrder = append(in.ModuleOrder, rolectl.ModuleOrder{Module: item.Module, Order: order})
	}

	return in, nil
}

func formOf(role *models.Role) Form {
	f := Form{
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.PermissionIDs(),
		Orders:      make(map[string]string, len(role.ModuleOrders)),
	}

	for _, o := range role.ModuleOrders {
		f.Orders[o.Module] = strconv.Itoa(o.Order)
	}

	return f
}

// Service provides CRUD operations for roles.
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

	app.Get(Path, auth.RequirePermission(auth.PermRolesView), s.List)
	app.Get(Path+"/create", auth.RequirePermission(auth.PermRolesCreate), s.New)
	app.Post(Path, auth.RequirePermission(auth.PermRolesCreate), s.Create)
	app.Get(Path+"/:id", auth.RequirePermission(auth.PermRolesView), s.Show)
	app.Get(Path+"/:id/edit", auth.RequirePermission(auth.PermRolesEdit), s.Edit)
	app.Post(Path+"/:id", auth.RequirePermission(auth.PermRolesEdit), s.Update)
	app.Put(Path+"/:id", auth.RequirePermission(auth.PermRolesEdit), s.Update)
	app.Post(Path+"/:id/delete", auth.RequirePermission(auth.PermRolesDelete), s.Delete)
	app.Delete(Path+"/:id", auth.RequirePermission(auth.PermRolesDelete), s.Delete)

	return nil
}

// List renders the roles with their user counts.
func (s *Service) List(c *fiber.Ctx) error {
	rows, page, err := rolectl.List(s.db, handler.PageRequest(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateList,
		navigation.Page("Roles", navigation.ModuleSettings, "roles"),
		fiber.Map{
			"Roles": rows,
			"Page":  page,
		})
}

// Show renders a role with its permissions grouped by module.
func (s *Service) Show(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	role, err := rolectl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	users, err := rolectl.UsersCount(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateShow,
		navigation.Page(role.Name, navigation.ModuleSettings, "roles", navigation.Link("Roles", Path)),
		fiber.Map{
			"Role":       role,
			"Groups":     permissionctl.GroupByModule(role.Permissions),
			"UsersCount": users,
		})
}

// New renders the create form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, 0, Form{}, nil)
}

// Create handles role creation.
func (s *Service) Create(c *fiber.Ctx) error {
	in, f, errs, err := s.bind(c)
	if err != nil {
		return err
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, errs)
	}

	role, err := rolectl.Create(s.db, in)
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint("role_id", role.ID).Str("name", role.Name).Msg("role created")

	return handler.Success(c, "Role created successfully.", Path)
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	role, err := rolectl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return s.renderForm(c, fiber.StatusOK, id, formOf(role), nil)
}

// Update handles role update. Permissions and module order are replaced as a whole.
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

	_, err = rolectl.Update(s.db, id, in)
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, "Role updated successfully.", Path)
}

// Delete handles role deletion. Roles assigned to users are kept.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err = rolectl.Delete(s.db, id); err != nil {
		return handler.Blocked(c, err, Path)
	}

	return handler.Success(c, "Role deleted successfully.", Path)
}

func (s *Service) bind(c *fiber.Ctx) (rolectl.Input, Form, form.Errors, error) {
	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return rolectl.Input{}, f, nil, fiber.ErrBadRequest
	}

	f.bindOrders(c)

	if errs.Any() {
		return rolectl.Input{}, f, errs, nil
	}

	in, errs := f.input()

	return in, f, errs, nil
}

// moduleRow is one line of the module order editor.
type moduleRow struct {
	Module string
	Title  string
	Field  string
	Order  string
}

func moduleRows(f Form) []moduleRow {
	modules := navigation.Modules()
	rows := make([]moduleRow, 0, len(modules))

	for _, item := range modules {
		rows = append(rows, moduleRow{
			Module: item.Module,
			Title:  item.Title,
			Field:  OrderFieldPrefix + item.Module,
			Order:  f.Orders[item.Module],
		})
	}

	// Ordered modules first, by position.
	sort.SliceStable(rows, func(i, j int) bool {
		a, errA := strconv.Atoi(rows[i].Order)
		b, errB := strconv.Atoi(rows[j].Order)

		if errA == nil && errB == nil {
			return a < b
		}

		return errA == nil && errB != nil
	})

	return rows
}

func (s *Service) renderForm(c *fiber.Ctx, status int, id uint, f Form, errs form.Errors) error {
	groups, err := permissionctl.Grouped(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	selected := make(map[uint]bool, len(f.Permissions))
	for _, permissionID := range f.Permissions {
		selected[permissionID] = true
	}

	title, action := "Create Role", Path
	if id != 0 {
		title, action = "Edit Role", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	return handler.Render(c, status, TemplateForm,
		navigation.Page(title, navigation.ModuleSettings, "roles", navigation.Link("Roles", Path)),
		fiber.Map{
			"Form":     f,
			"Errors":   errs,
			"Groups":   groups,
			"Selected": selected,
			"Modules":  moduleRows(f),
			"IsCreate": id == 0,
			"Action":   action,
		})
}
