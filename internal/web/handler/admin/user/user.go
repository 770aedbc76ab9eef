// Package user provides handlers for managing users (CRUD) in the settings area.
package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	rolectl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/role"
	userctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/user"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "settings/users"

	// TemplateList is the template for listing users.
	TemplateList = "settings/users/index"
	// TemplateShow is the template for a single user.
	TemplateShow = "settings/users/show"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "settings/users/form"
)

// Form is the submitted user form. The password is optional on update.
type Form struct {
	Name                 string `form:"name"                  validate:"required,max=255"`
	Email                string `form:"email"                 validate:"required,email,max=255"`
	Password             string `form:"password"              validate:"omitempty,min=8"`
	PasswordConfirmation string `form:"password_confirmation" validate:"eqfield=Password"`
	Roles                []uint `form:"roles"`
}

func (f Form) input() userctl.Input {
	return userctl.Input{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		RoleIDs:  f.Roles,
	}
}

// Service provides CRUD operations for users.
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

	app.Get(Path, auth.RequirePermission(auth.PermUsersView), s.List)
	app.Get(Path+"/create", auth.RequirePermission(auth.PermUsersCreate), s.New)
	app.Post(Path, auth.RequirePermission(auth.PermUsersCreate), s.Create)
	app.Get(Path+"/:id", auth.RequirePermission(auth.PermUsersView), s.Show)
	app.Get(Path+"/:id/edit", auth.RequirePermission(auth.PermUsersEdit), s.Edit)
	app.Post(Path+"/:id", auth.RequirePermission(auth.PermUsersEdit), s.Update)
	app.Put(Path+"/:id", auth.RequirePermission(auth.PermUsersEdit), s.Update)
	app.Post(Path+"/:id/delete", auth.RequirePermission(auth.PermUsersDelete), s.Delete)
	app.Delete(Path+"/:id", auth.RequirePermission(auth.PermUsersDelete), s.Delete)

	return nil
}

// List renders the users list.
func (s *Service) List(c *fiber.Ctx) error {
	users, page, err := userctl.List(s.db, handler.PageRequest(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateList,
		navigation.Page("Users", navigation.ModuleSettings, "users"),
		fiber.Map{
			"Users": users,
			"Page":  page,
		})
}

// Show renders a user with its roles.
func (s *Service) Show(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	user, err := userctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Render(c, fiber.StatusOK, TemplateShow,
		navigation.Page(user.Name, navigation.ModuleSettings, "users", navigation.Link("Users", Path)),
		fiber.Map{
			"User":   user,
			"IsSelf": isSelf(c, id),
		})
}

// New renders the create form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, 0, Form{}, nil)
}

// Create handles user creation.
func (s *Service) Create(c *fiber.Ctx) error {
	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return fiber.ErrBadRequest
	}

	if errs.Any() {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, errs)
	}

	user, err := userctl.Create(s.db, f.input())
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, 0, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("user created")

	return handler.Success(c, "User created successfully.", Path)
}

// Edit renders the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	user, err := userctl.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	f := Form{Name: user.Name, Email: user.Email, Roles: roleIDs(user)}

	return s.renderForm(c, fiber.StatusOK, id, f, nil)
}

// Update handles user update. An empty password keeps the current one.
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

	_, err = userctl.Update(s.db, id, f.input())
	if fieldErrs, ok := form.FromError(err); ok {
		return s.renderForm(c, fiber.StatusUnprocessableEntity, id, f, fieldErrs)
	}

	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, "User updated successfully.", Path)
}

// Delete handles user deletion. Users can not delete their own account.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var actorID uint
	if principal := auth.Principal(c); principal != nil {
		actorID = principal.ID
	}

	if err = userctl.Delete(s.db, id, actorID); err != nil {
		return handler.Blocked(c, err, Path)
	}

	log.Info().Uint("user_id", id).Uint("actor_id", actorID).Msg("user deleted")

	return handler.Success(c, "User deleted successfully.", Path)
}

func (s *Service) renderForm(c *fiber.Ctx, status int, id uint, f Form, errs form.Errors) error {
	roles, err := rolectl.All(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	selected := make(map[uint]bool, len(f.Roles))
	for _, roleID := range f.Roles {
		selected[roleID] = true
	}

	f.Password, f.PasswordConfirmation = "", ""

	title, action := "Create User", Path
	if id != 0 {
		title, action = "Edit User", Path+"/"+strconv.FormatUint(uint64(id), 10)
	}

	return handler.Render(c, status, TemplateForm,
		navigation.Page(title, navigation.ModuleSettings, "users", navigation.Link("Users", Path)),
		fiber.Map{
			"Form":     f,
			"Errors":   errs,
			"Roles":    roles,
			"Selected": selected,
			"IsCreate": id == 0,
			"Action":   action,
		})
}

func roleIDs(user *models.User) []uint {
	ids := make([]uint, 0, len(user.Roles))
	for i := range user.Roles {
		ids = append(ids, user.Roles[i].ID)
	}

	return ids
}

func isSelf(c *fiber.Ctx, id uint) bool {
	principal := auth.Principal(c)

	return principal != nil && principal.ID == id
}
