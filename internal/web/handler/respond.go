package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

// Messages shown for deletes blocked by dependent records.
const (
	MsgCategoryHasChildren = "Cannot delete category with subcategories. Please delete or reassign subcategories first."
	MsgRoleAssigned        = "Cannot delete role that is assigned to users."
	MsgPermissionAssigned  = "Cannot delete permission that is assigned to roles."
	MsgDeleteSelf          = "You cannot delete your own account."
)

// ID parses the :id route parameter.
func ID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, controller.ErrNotFound
	}

	return uint(id), nil
}

// PageRequest reads the page, pageSize and search query parameters.
func PageRequest(c *fiber.Ctx) controller.PageRequest {
	return controller.PageRequest{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
		Search:   c.Query("search"),
	}
}

// Render renders a template inside the base layout with the navigation and the pending flash message.
func Render(c *fiber.Ctx, status int, template string, nav *navigation.Context, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav

	if flash, ok := session.PopFlash(c); ok {
		data["Flash"] = flash
	}

	return c.Status(status).Render(template, data, BaseLayout)
}

// Fail renders the error page matching err.
func Fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, controller.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).Render(TemplateError, fiber.Map{
			"Status":  fiber.StatusNotFound,
			"Message": "Not Found",
		}, BaseLayout)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).Render(TemplateError, fiber.Map{
		"Status":  fiber.StatusInternalServerError,
		"Message": "Internal Server Error",
	}, BaseLayout)
}

// Success queues a success flash and redirects to target.
func Success(c *fiber.Ctx, message, target string) error {
	if err := session.SetFlash(c, session.FlashSuccess, message); err != nil {
		log.Warn().Err(err).Msg("failed to store flash message")
	}

	return c.Redirect(target)
}

// Blocked queues the message of a blocked delete and redirects back.
// Errors other than *controller.IntegrityError are passed to Fail.
func Blocked(c *fiber.Ctx, err error, fallback string) error {
	ie, ok := controller.AsIntegrityError(err)
	if !ok {
		return Fail(c, err)
	}

	if ferr := session.SetFlash(c, session.FlashError, IntegrityMessage(ie)); ferr != nil {
		log.Warn().Err(ferr).Msg("failed to store flash message")
	}

	return c.RedirectBack(fallback)
}

// IntegrityMessage returns the user facing message of a blocked delete.
func IntegrityMessage(err error) string {
	switch {
	case errors.Is(err, controller.ErrCategoryHasChildren):
		return MsgCategoryHasChildren
	case errors.Is(err, controller.ErrRoleAssigned):
		return MsgRoleAssigned
	case errors.Is(err, controller.ErrPermissionAssigned):
		return MsgPermissionAssigned
	case errors.Is(err, controller.ErrDeleteSelf):
		return MsgDeleteSelf
	default:
		return err.Error()
	}
}
