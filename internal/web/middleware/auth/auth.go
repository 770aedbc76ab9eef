package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/login"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/logout"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

const (
	// LocalsCurrentUser holds the session.Data of the signed in user.
	LocalsCurrentUser = "CurrentUser"
	// LocalsMenu holds the sidebar entries visible to the principal.
	LocalsMenu = "Menu"
)

// PublicPrefixes are served without a session.
var PublicPrefixes = []string{ //nolint:gochecknoglobals
	"/static",
	login.Path,
	logout.Path,
	"/checkalive",
}

// Middleware is a Fiber middleware that checks for user authentication.
// Requests without a valid session are redirected to the login page.
func Middleware(c *fiber.Ctx) error {
	if IsPublic(c) {
		return c.Next()
	}

	data, ok := session.Current(c)
	if !ok {
		return c.Redirect(login.Path)
	}

	c.Locals(auth.LocalsUserID, data.UserID)
	c.Locals(LocalsCurrentUser, data)

	return c.Next()
}

// Menu is a Fiber middleware running after auth.LoadPrincipal. It ends sessions whose
// user no longer exists and adds the sidebar of the principal to fiber.Locals.
func Menu(c *fiber.Ctx) error {
	if IsPublic(c) {
		return c.Next()
	}

	principal := auth.Principal(c)
	if principal == nil {
		if err := session.Logout(c); err != nil {
			log.Warn().Err(err).Msg("failed to destroy session of unknown user")
		}

		return c.Redirect(login.Path)
	}

	c.Locals(LocalsMenu, navigation.Menu(principal))

	return c.Next()
}

// IsPublic reports whether the request path is served without authentication.
func IsPublic(c *fiber.Ctx) bool {
	p := strings.ToLower(c.Path())

	for _, prefix := range PublicPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}

	return false
}
