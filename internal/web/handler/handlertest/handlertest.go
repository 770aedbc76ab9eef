// Package handlertest provides the fiber app, database and views shared by the handler tests.
package handlertest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

// Views is a fiber views engine that records the last render and writes the template name.
type Views struct {
	mu   sync.Mutex
	name string
	data fiber.Map
}

// Load implements fiber.Views.
func (v *Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, _ ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.name = name
	v.data, _ = data.(fiber.Map)

	_, err := io.WriteString(w, name)

	return err
}

// Name returns the last rendered template.
func (v *Views) Name() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.name
}

// Data returns the bind of the last render.
func (v *Views) Data() fiber.Map {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.data
}

// NewConfig returns a minimal valid config.
func NewConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		DB: config.DB{GormEngine: config.EngineSQLite, Path: ":memory:"},
	}
}

// NewDB opens a migrated in-memory sqlite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

// NewApp returns an app acting as the user with userID, 0 for an anonymous request.
// The principal is loaded from db like in production.
func NewApp(t *testing.T, db *gorm.DB, userID uint) (*fiber.App, *Views) {
	t.Helper()

	session.Init(nil, config.Session{ExpiryTime: time.Minute})

	views := &Views{}
	app := fiber.New(fiber.Config{Views: views, PassLocalsToViews: true})

	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals(auth.LocalsUserID, userID)
		}

		return c.Next()
	})
	app.Use(auth.LoadPrincipal(auth.NewService(db)))

	return app, views
}

// CreateUser stores a user holding a single role with the given permissions.
// Missing permissions are created.
func CreateUser(t *testing.T, db *gorm.DB, email string, perms ...string) models.User {
	t.Helper()

	role := models.Role{Name: "role for " + email}

	for _, name := range perms {
		module, action, _ := strings.Cut(name, ".")

		p := models.Permission{Name: name, Module: module, Action: action, DisplayName: name}
		require.NoError(t, db.Where(models.Permission{Name: name}).FirstOrCreate(&p).Error)

		role.Permissions = append(role.Permissions, p)
	}

	require.NoError(t, db.Create(&role).Error)

	hash, err := models.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{Name: email, Email: email, Password: hash, Roles: []models.Role{role}}
	require.NoError(t, db.Omit("Roles.*").Create(&user).Error)

	return user
}

// Do sends req and returns the response with its body.
func Do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	_ = resp.Body.Close()

	return resp, string(body)
}

// Get sends a GET request.
func Get(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()

	return Do(t, app, httptest.NewRequest(http.MethodGet, target, nil))
}

// PostForm sends an urlencoded POST request.
func PostForm(t *testing.T, app *fiber.App, target string, form url.Values) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return Do(t, app, req)
}
