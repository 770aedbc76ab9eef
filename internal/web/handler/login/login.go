// Package login provides the email and password sign-in handlers.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the login template, rendered without the base layout.
	TemplateName = "login"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler. guards run before the form submission.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, guards ...fiber.Handler) error {
	if app == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg
	s.provider = auth.NewLocalProvider(db)

	post := make([]fiber.Handler, 0, len(guards)+1)
	post = append(post, guards...)
	post = append(post, s.Post)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, post...)
	})

	return nil
}

// Get renders the login page. Signed in users go to the dashboard.
func (s *Service) Get(c *fiber.Ctx) error {
	if _, ok := session.Current(c); ok {
		return c.Redirect(navigation.HomeURL)
	}

	return s.render(c, fiber.StatusOK, Form{}, nil)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var f Form

	errs, err := form.Bind(c, &f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrInvalidFormData.Error())
	}

	if errs.Any() {
		return s.render(c, fiber.StatusUnprocessableEntity, f, errs)
	}

	user, err := s.provider.Authenticate(f.Email, f.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info().Str("email", f.Email).Str("ip", c.IP()).Msg("failed login attempt")

		return s.render(c, fiber.StatusUnprocessableEntity, f, form.Errors{"email": MsgInvalidCredentials})
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to authenticate user")

		return fiber.ErrInternalServerError
	}

	if err = session.Login(c, session.Data{UserID: user.ID, Name: user.Name, Email: user.Email}); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to write session")

		return fiber.ErrInternalServerError
	}

	log.Info().Uint("user_id", user.ID).Msg("user logged in")

	return c.Redirect(navigation.HomeURL)
}

func (s *Service) render(c *fiber.Ctx, status int, f Form, errs form.Errors) error {
	f.Password = ""

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title":  s.cfg.Title,
		"Form":   f,
		"Errors": errs,
	})
}
