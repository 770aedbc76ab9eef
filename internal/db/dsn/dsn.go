// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
)

// Create builds the gorm Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(cfg.DB)
	case config.EngineSQLite:
		return SQLite(cfg.DB)
	default:
		return MySQL(cfg.DB)
	}
}

// MySQL returns a go-sql-driver/mysql DSN, user:password@tcp(host:port)/name?extras.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s)/%s",
		db.User,
		db.Password,
		net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres returns a postgres connection URI, extras are appended as query string.
func Postgres(db config.DB) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   "/" + db.Name,
	}

	if db.Extras != "" {
		u.RawQuery = strings.TrimPrefix(db.Extras, "?")
	}

	return u.String()
}

// SQLite returns the database file with extras appended as query string.
func SQLite(db config.DB) string {
	if db.Extras == "" {
		return db.Path
	}

	return db.Path + "?" + strings.TrimPrefix(db.Extras, "?")
}
