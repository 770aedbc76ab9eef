package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	fiberlogger "github.com/Keed0303/ecommerce-starter-app/internal/logger/adapter/fiber"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/admin/permission"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/admin/role"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/admin/user"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/category"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/dashboard"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/login"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/logout"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/product"
	authmiddleware "github.com/Keed0303/ecommerce-starter-app/internal/web/middleware/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// CSRFField is the hidden form field carrying the csrf token.
	CSRFField = "_csrf"
	// LocalsCSRF is the fiber.Locals key of the csrf token, rendered by the templates.
	LocalsCSRF = "csrf"

	// StaticMaxAge is the browser cache lifetime of /static in seconds, used with Webserver.CacheEnabled.
	StaticMaxAge = 24 * 60 * 60

	loginAttempts = 10
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the configured port.
func (s *Service) Start() error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(":" + strconv.Itoa(s.cfg.Webserver.Port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			doneFiber <- err
			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while the service accepts traffic and 503 during shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// MetricsToken serves next to requests carrying the configured bearer token.
// Other requests continue to the session protected metrics route.
func (s *Service) MetricsToken(next fiber.Handler) fiber.Handler {
	token := []byte(s.cfg.Webserver.MetricsToken)

	return keyauth.New(keyauth.Config{
		Next: func(_ *fiber.Ctx) bool {
			return len(token) == 0
		},
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), token) != 1 {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}

			return true, nil
		},
		SuccessHandler: next,
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Next()
		},
	})
}

// Views returns the template engine, reading the templates from disk in dev mode.
func Views(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(http.FS(templateEmbedFS{content: embeddedTemplates}), ".gohtml")

	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i + 1
		}

		return result
	})
	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	engine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	engine.AddFunc("money", func(d decimal.Decimal) string {
		return d.StringFixed(2)
	})

	return engine
}

// New creates a new web service with the given configuration.
// storage backs the sessions, nil keeps them in memory.
func New(cfg *config.Config, db *gorm.DB, storage fiber.Storage) (*Service, error) {
	if cfg == nil || db == nil {
		return nil, handler.ErrNilACD
	}

	session.Init(storage, cfg.Webserver.Session)

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           cfg.Title,
			CaseSensitive:     true,
			StrictRouting:     !cfg.Webserver.CleanPath,
			Immutable:         true,
			Views:             Views(cfg),
			PassLocalsToViews: true,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		db:           db,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserLocal:     auth.LocalsUserID,
	}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key:    cfg.Webserver.CookieEncryptionKey,
			Except: []string{session.CookieName()},
		}))
	}

	staticMaxAge := 0
	if cfg.Webserver.CacheEnabled {
		staticMaxAge = StaticMaxAge
	}

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
				MaxAge:     staticMaxAge,
			},
		),
	)

	app.Get(CheckAlivePath, service.CheckAlive)

	metrics := adaptor.HTTPHandler(promhttp.Handler())
	app.Get(MetricsPath, service.MetricsToken(metrics))

	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:" + CSRFField,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Webserver.Session.Secure,
		CookieDomain:   cfg.Webserver.Session.Domain,
		CookieHTTPOnly: true,
		Expiration:     cfg.Webserver.Session.ExpiryTime,
		ContextKey:     LocalsCSRF,
	}))

	app.Use(authmiddleware.Middleware)
	app.Use(auth.LoadPrincipal(auth.NewService(db)))
	app.Use(authmiddleware.Menu)

	app.Get(MetricsPath, auth.RequirePermission(auth.PermSettingsView), metrics)

	loginLimiter := limiter.New(limiter.Config{
		Max:        loginAttempts,
		Expiration: time.Minute,
	})

	if err := login.Handler.Init(app, cfg, db, loginLimiter); err != nil {
		return nil, err
	}

	if err := logout.Handler.Init(app, cfg); err != nil {
		return nil, err
	}

	services := []handler.Service{
		&dashboard.Handler,
		&product.Handler,
		&category.Handler,
		&user.Handler,
		&role.Handler,
		&permission.Handler,
	}

	for _, h := range services {
		if err := h.Init(app, cfg, db); err != nil {
			return nil, err
		}
	}

	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service, nil
}
