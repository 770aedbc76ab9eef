// Package config handles input from etc/main.toml, .env files and ECOMMERCE_ADMIN_* variables.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, ECOMMERCE_ADMIN_DB_PASSWORD sets db.password.
	EnvPrefix = "ECOMMERCE_ADMIN"
	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	masked = "********"

	defaultShutDownTime  = 5
	defaultSessionExpiry = 24 * time.Hour
)

// ReadConfig reads main.toml below path and applies .env, environment and JSON overrides.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if JSONConfigEnv := os.Getenv(EnvConfigJSON); JSONConfigEnv != "" {
		var err error

		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Ecommerce Admin")
	v.SetDefault("webserver.shutDownTime", defaultShutDownTime)
	v.SetDefault("webserver.session.expiryTime", defaultSessionExpiry)
	v.SetDefault("webserver.session.cookieName", "session_id")
	v.SetDefault("db.gormEngine", EngineSQLite)
	v.SetDefault("db.path", "ecommerce.db")
	v.SetDefault("seed.adminName", "Administrator")
	v.SetDefault("seed.adminEmail", "admin@example.com")
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// Masked returns a copy of c with secrets replaced, for printing.
func Masked(c Config) Config {
	for _, secret := range []*string{
		&c.DB.Password,
		&c.Webserver.CookieEncryptionKey,
		&c.Webserver.MetricsToken,
		&c.Seed.AdminPassword,
	} {
		if *secret != "" {
			*secret = masked
		}
	}

	return c
}

// DumpConfig returns the masked config as TOML string.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(Masked(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON returns the masked config as JSON string.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(Masked(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills defaults
// a JSON override may have cleared.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	c.DB.GormEngine = strings.ToLower(strings.TrimSpace(c.DB.GormEngine))
	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineSQLite
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres:
	case EngineSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrEmptyDBPath, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnsupportedEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = "session_id"
	}

	return nil
}
