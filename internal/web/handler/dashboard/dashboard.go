// Package dashboard provides the dashboard handler with the catalog and account statistics.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
	productctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/product"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = navigation.HomeURL

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// RecentProducts is the number of latest products shown.
	RecentProducts = 5
)

// Stats are the counters shown on the dashboard.
type Stats struct {
	Products       int64
	Categories     int64
	Users          int64
	Roles          int64
	InventoryValue decimal.Decimal
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, auth.RequirePermission(auth.PermDashboardView), s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	stats, err := s.stats()
	if err != nil {
		return handler.Fail(c, err)
	}

	recent, _, err := productctl.List(s.db, productctl.Filter{
		PageRequest: controller.PageRequest{Page: 1, PageSize: RecentProducts},
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	log.Debug().
		Int64("products", stats.Products).
		Int64("categories", stats.Categories).
		Str("inventory_value", stats.InventoryValue.String()).
		Msg("dashboard statistics loaded")

	return handler.Render(c, fiber.StatusOK, TemplateName,
		navigation.NewContext("Dashboard", navigation.ModuleDashboard, "dashboard").
			AddBreadcrumb("Home", Path, false).
			AddBreadcrumb("Dashboard", "", true),
		fiber.Map{
			"Stats":          stats,
			"RecentProducts": recent,
		})
}

func (s *Service) stats() (Stats, error) {
	var stats Stats

	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Product{}, &stats.Products},
		{&models.Category{}, &stats.Categories},
		{&models.User{}, &stats.Users},
		{&models.Role{}, &stats.Roles},
	}

	for _, q := range counts {
		if err := s.db.Model(q.model).Count(q.dest).Error; err != nil {
			return Stats{}, err
		}
	}

	value, err := productctl.InventoryValue(s.db)
	if err != nil {
		return Stats{}, err
	}

	stats.InventoryValue = value

	return stats, nil
}
