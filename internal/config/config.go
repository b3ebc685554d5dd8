// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

// EnvConfigJSON holds a JSON document merged over the TOML config.
const EnvConfigJSON = "BETTER_AUTH_ADMIN_CONFIG_JSON"

// defaults applied by validate.
const (
	defaultShutDownTime        = 5
	defaultBasePath            = "/api/auth"
	defaultAdminRole           = "admin"
	defaultListLimit           = 1000
	defaultAuthTimeout         = 15 * time.Second
	defaultImpersonateRedirect = "/"
	defaultSessionRecheck      = 30 * time.Second
	defaultMountPath           = "/admin"
	defaultClientDir           = "./client/dist"
	defaultSessionExpiry       = 24 * time.Hour
	defaultSessionPath         = "./data/sessions.db"
	defaultSQLitePath          = "./data/admin.db"
	defaultRetentionDays       = 90
	defaultRecentLimit         = 10
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge config from "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills
// in defaults for everything else.
func validate(c *Config) error { //nolint:cyclop
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if strings.TrimSpace(c.Auth.URL) == "" {
		return errors.Wrap(ErrEmptyAuthURL, invalidErrMessage)
	}

	if u, err := url.Parse(c.Auth.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.Wrap(ErrInvalidAuthURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.DB.GormEngine == EngineSQLite && c.DB.Name == "" {
		c.DB.Name = defaultSQLitePath
	}

	switch c.Webserver.Session.Storage {
	case "":
		c.Webserver.Session.Storage = SessionStorageMemory
	case SessionStorageMemory, SessionStorageBolt:
	case SessionStorageDB:
		if c.DB.GormEngine == EngineSQLite {
			return errors.Wrap(ErrUnknownSessionStorage, "session storage db needs the mysql or postgres engine")
		}
	default:
		return errors.Wrap(ErrUnknownSessionStorage, invalidErrMessage)
	}

	if c.Webserver.Session.Storage == SessionStorageBolt && c.Webserver.Session.Path == "" {
		c.Webserver.Session.Path = defaultSessionPath
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	setAuthDefaults(&c.Auth)

	if c.Dashboard.MountPath == "" {
		c.Dashboard.MountPath = defaultMountPath
	}

	if c.Dashboard.ClientDir == "" {
		c.Dashboard.ClientDir = defaultClientDir
	}

	if c.Dashboard.AuthURL == "" {
		c.Dashboard.AuthURL = c.Auth.URL
	}

	if c.Audit.RetentionDays == 0 {
		c.Audit.RetentionDays = defaultRetentionDays
	}

	if c.Audit.RecentLimit == 0 {
		c.Audit.RecentLimit = defaultRecentLimit
	}

	return nil
}

func setAuthDefaults(a *Auth) {
	if a.BasePath == "" {
		a.BasePath = defaultBasePath
	}

	if a.AdminRole == "" {
		a.AdminRole = defaultAdminRole
	}

	if a.ListLimit == 0 {
		a.ListLimit = defaultListLimit
	}

	if a.Timeout == 0 {
		a.Timeout = defaultAuthTimeout
	}

	if a.ImpersonateRedirect == "" {
		a.ImpersonateRedirect = defaultImpersonateRedirect
	}

	if a.SessionRecheck == 0 {
		a.SessionRecheck = defaultSessionRecheck
	}
}
