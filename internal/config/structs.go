package config

import (
	"time"

	"github.com/Keed0303/ecommerce-starter-app/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // lifetime of an idle session
	CookieName string        // name of the session cookie
	Secure     bool          // send the session cookie over https only
	Domain     string        // domain of the session and csrf cookies, empty for the request host
}

// Seed holds the bootstrap data written by the seed command and on first start.
type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	CacheEnabled        bool    // let browsers cache static files for a day
	CleanPath           bool    // match routes with a trailing slash, /products/ serves /products
	DisableRecover      bool    // disable recover middleware
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time in seconds for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // base64 key for the flash cookie encryption, empty disables it
	MetricsToken        string  // bearer token for scraping /metrics without a session, empty disables it
	Session             Session // session settings
}
