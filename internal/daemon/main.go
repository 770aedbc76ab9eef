// Package daemon opens the database, seeds it and runs the web service.
package daemon

import (
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/dsn"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	gormlogger "github.com/Keed0303/ecommerce-starter-app/internal/logger/adapter/gorm"
	"github.com/Keed0303/ecommerce-starter-app/internal/web"
)

// SessionTable holds the fiber sessions on mysql and postgres.
const SessionTable = "sessions"

// ErrNilConfig is returned when no config is provided.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	DB         *gorm.DB
	Seeded     *SeedResult
	webService *web.Service
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start()
}

// New opens and seeds the database and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	seeded, err := Seed(cfg, db)
	if err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, db, SessionStorage(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{DB: db, Seeded: seeded, webService: webService}, nil
}

// Dialector returns the gorm driver of the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.MySQL(cfg.DB)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg.DB)), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn.SQLite(cfg.DB)), nil
	default:
		return nil, errors.Wrap(config.ErrUnsupportedEngine, cfg.DB.GormEngine)
	}
}

// Open connects to the configured database with the zerolog gorm logger.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.New(cfg.Log)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database handle")
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database connected")

	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "failed to migrate database")
}

// SessionStorage returns the session backend of the configured engine.
// sqlite keeps sessions in memory and returns nil.
func SessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         SessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg.DB),
			Table:         SessionTable,
		})
	default:
		return nil
	}
}
