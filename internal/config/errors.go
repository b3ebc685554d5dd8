package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyAuthURL error if config auth.url is empty.
	ErrEmptyAuthURL = errors.New("toml config auth.url can not be empty")

	// ErrInvalidAuthURL error if config auth.url is not an absolute http(s) url.
	ErrInvalidAuthURL = errors.New("toml config auth.url must be an absolute http or https url")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be sqlite, mysql or postgres")

	// ErrUnknownSessionStorage error if config webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("toml config webserver.session.storage must be memory, bbolt or db")
)
