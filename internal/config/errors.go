package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnsupportedEngine error if config db.gormEngine is not one of mysql, postgres or sqlite.
	ErrUnsupportedEngine = errors.New("config db.gormEngine is not supported")

	// ErrEmptyDBPath error if the sqlite engine is used without db.path.
	ErrEmptyDBPath = errors.New("config db.path can not be empty for sqlite")
)
