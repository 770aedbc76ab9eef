package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
)

// ErrNilACD is returned by Init when app, cfg or db is nil.
var ErrNilACD = errors.New(ErrNilACDFatalLogMsg)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error
}
