// Package logout provides the sign-out handler.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/login"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

// Path is the path of the logout action.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config) error {
	if app == nil || cfg == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg

	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout destroys the session and redirects to the login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		log.Error().Err(err).Msg("failed to destroy session")
	}

	return c.Redirect(login.Path)
}
