package dashboard

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	productctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/product"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/handlertest"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

func TestGet(t *testing.T) {
	db := handlertest.NewDB(t)
	user := handlertest.CreateUser(t, db, "admin@example.com", auth.PermDashboardView)

	for i, name := range []string{"A", "B", "C", "D", "E", "F"} {
		_, err := productctl.Create(db, productctl.Input{Name: name, Price: decimal.NewFromInt(10), Stock: uint(i)})
		require.NoError(t, err)
	}

	app, views := handlertest.NewApp(t, db, user.ID)

	s := &Service{}
	require.NoError(t, s.Init(app, handlertest.NewConfig(), db))

	resp, body := handlertest.Get(t, app, Path)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateName, body)

	stats, ok := views.Data()["Stats"].(Stats)
	require.True(t, ok)
	assert.Equal(t, int64(6), stats.Products)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Roles)
	assert.Zero(t, stats.Categories)
	assert.Equal(t, "150", stats.InventoryValue.String())

	recent, ok := views.Data()["RecentProducts"].([]models.Product)
	require.True(t, ok)
	require.Len(t, recent, RecentProducts)
	assert.Equal(t, "F", recent[0].Name)

	nav, ok := views.Data()["Navigation"].(*navigation.Context)
	require.True(t, ok)
	assert.True(t, nav.IsSectionActive(navigation.ModuleDashboard))
}

func TestGet_Forbidden(t *testing.T) {
	db := handlertest.NewDB(t)
	user := handlertest.CreateUser(t, db, "clerk@example.com", auth.PermProductsView)

	app, _ := handlertest.NewApp(t, db, user.ID)

	s := &Service{}
	require.NoError(t, s.Init(app, handlertest.NewConfig(), db))

	resp, body := handlertest.Get(t, app, Path)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, auth.MsgAccessDenied, body)
}
