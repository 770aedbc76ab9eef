package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

const (
	// LocalsUserID is the fiber.Locals key holding the authenticated user id (uint).
	LocalsUserID = "UserID"
	// LocalsPrincipal is the fiber.Locals key holding the loaded *models.User.
	LocalsPrincipal = "Principal"

	// MsgAccessDenied is the body of a 403 response.
	MsgAccessDenied = "Access Denied"
	// MsgUnauthorized is the body of a 401 response.
	MsgUnauthorized = "Unauthorized"
)

// LoadPrincipal is a Fiber middleware that resolves the principal of an authenticated request
// and adds it, its permissions and a hasPermission helper to fiber.Locals for handlers and templates.
func LoadPrincipal(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(LocalsUserID).(uint)
		if !ok || userID == 0 {
			return c.Next()
		}

		principal, err := authService.LoadPrincipal(userID)
		if errors.Is(err, ErrUserNotFound) {
			log.Warn().Uint("user_id", userID).Msg("session references an unknown user")
			return c.Next()
		}

		if err != nil {
			log.Error().Err(err).Uint("user_id", userID).Msg("failed to load principal")
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		c.Locals(LocalsPrincipal, principal)
		c.Locals("permissions", PermissionNames(principal))
		c.Locals("hasPermission", func(perm string) bool {
			return HasPermission(principal, perm)
		})

		return c.Next()
	}
}

// Principal returns the principal stored by LoadPrincipal or nil.
func Principal(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsPrincipal).(*models.User)
	return user
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(permission string) fiber.Handler {
	return guard([]string{permission}, func(user *models.User) bool {
		return HasPermission(user, permission)
	})
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	return guard(permissions, func(user *models.User) bool {
		return HasAnyPermission(user, permissions)
	})
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(permissions ...string) fiber.Handler {
	return guard(permissions, func(user *models.User) bool {
		return HasAllPermissions(user, permissions)
	})
}

func guard(permissions []string, allowed func(*models.User) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := Principal(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).SendString(MsgUnauthorized)
		}

		if !allowed(user) {
			recordDecision(permissions, false)
			log.Warn().Uint("user_id", user.ID).Strs("permissions", permissions).
				Str("path", c.Path()).
				Msg("user lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString(MsgAccessDenied)
		}

		recordDecision(permissions, true)

		return c.Next()
	}
}
