package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/handlertest"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// client keeps the cookies of an app across requests.
type client struct {
	t       *testing.T
	app     *fiber.App
	db      *gorm.DB
	cookies map[string]string
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, body := handlertest.Do(c.t, c.app, req)

	for _, cookie := range resp.Cookies() {
		c.cookies[cookie.Name] = cookie.Value
	}

	return resp, body
}

func (c *client) get(target string) (*http.Response, string) {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return c.do(req)
}

func newClient(t *testing.T, opts ...func(*config.Config)) *client {
	t.Helper()

	db := handlertest.NewDB(t)
	handlertest.CreateUser(t, db, "admin@example.com", auth.PermDashboardView, auth.PermProductsView)

	cfg := handlertest.NewConfig()
	cfg.Title = "Shop Admin"

	for _, opt := range opts {
		opt(cfg)
	}

	service, err := New(cfg, db, nil)
	require.NoError(t, err)

	return &client{t: t, app: service.App, db: db, cookies: make(map[string]string)}
}

func TestNew_Nil(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)
}

func TestPublicEndpoints(t *testing.T) {
	c := newClient(t)

	resp, body := c.get(CheckAlivePath)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	resp, _ = c.get("/static/css/app.css")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderCacheControl))
}

func TestStaticCache(t *testing.T) {
	c := newClient(t, func(cfg *config.Config) { cfg.Webserver.CacheEnabled = true })

	resp, _ := c.get("/static/css/app.css")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=86400", resp.Header.Get(fiber.HeaderCacheControl))
}

func TestCleanPath(t *testing.T) {
	strict := newClient(t)

	resp, _ := strict.get(CheckAlivePath + "/")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	clean := newClient(t, func(cfg *config.Config) { cfg.Webserver.CleanPath = true })

	resp, body := clean.get(CheckAlivePath + "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
}

func TestSessionCookieDomain(t *testing.T) {
	c := newClient(t, func(cfg *config.Config) { cfg.Webserver.Session.Domain = "shop.example.com" })

	resp, _ := c.get("/login")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	domains := map[string]string{}
	for _, cookie := range resp.Cookies() {
		domains[cookie.Name] = cookie.Domain
	}

	assert.Equal(t, "shop.example.com", domains["csrf_"])
}

func TestMetrics(t *testing.T) {
	const token = "scrape-token"

	scrape := func(c *client, authorization string) (*http.Response, string) {
		req := httptest.NewRequest(http.MethodGet, MetricsPath, nil)
		if authorization != "" {
			req.Header.Set(fiber.HeaderAuthorization, authorization)
		}

		return c.do(req)
	}

	c := newClient(t, func(cfg *config.Config) { cfg.Webserver.MetricsToken = token })

	resp, _ := scrape(c, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode, "anonymous")
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = scrape(c, "Bearer wrong")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode, "wrong token")

	resp, body := scrape(c, "Bearer "+token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")

	c.login("admin@example.com", "password123")

	resp, _ = scrape(c, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "signed in without settings.view")
}

func TestMetrics_SettingsView(t *testing.T) {
	c := newClient(t)

	handlertest.CreateUser(t, c.db, "ops@example.com", auth.PermSettingsView)

	c.login("ops@example.com", "password123")

	resp, body := c.get(MetricsPath)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "permission_checks_total")
}

// login signs in through the login form, csrf token included.
func (c *client) login(email, password string) {
	c.t.Helper()

	resp, body := c.get("/login")
	require.Equal(c.t, fiber.StatusOK, resp.StatusCode)

	match := csrfInput.FindStringSubmatch(body)
	require.Len(c.t, match, 2)

	resp, _ = c.post("/login", url.Values{
		"_csrf":    {match[1]},
		"email":    {email},
		"password": {password},
	})
	require.Equal(c.t, fiber.StatusFound, resp.StatusCode)
}

func TestRedirects(t *testing.T) {
	c := newClient(t)

	for _, target := range []string{"/", "/dashboard"} {
		resp, _ := c.get(target)
		require.Equal(t, fiber.StatusFound, resp.StatusCode, target)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation), "anonymous %s", target)
	}

	c.login("admin@example.com", "password123")

	resp, _ := c.get("/")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = c.get("/dashboard")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginFlow(t *testing.T) {
	c := newClient(t)

	resp, body := c.get("/login")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Shop Admin")

	match := csrfInput.FindStringSubmatch(body)
	require.Len(t, match, 2)

	resp, _ = c.post("/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"password123"},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "missing csrf token")

	resp, _ = c.post("/login", url.Values{
		"_csrf":    {match[1]},
		"email":    {"admin@example.com"},
		"password": {"password123"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))
	assert.Contains(t, c.cookies, session.CookieName())

	resp, body = c.get("/dashboard")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Inventory value")
	assert.Contains(t, body, `href="/products"`)
	assert.NotContains(t, body, `href="/categories"`)

	resp, body = c.get("/categories")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, auth.MsgAccessDenied, body)

	resp, body = c.get("/products")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No products found.")

	resp, _ = c.get("/logout")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp, _ = c.get("/dashboard")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
}
