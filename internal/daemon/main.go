// Package daemon wires config, logging, database, sessions and the web
// service together.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db"
	"github.com/better-auth-admin/better-auth-admin/internal/db/controller/audit"
	"github.com/better-auth-admin/better-auth-admin/internal/db/dsn"
	"github.com/better-auth-admin/better-auth-admin/internal/logger"
	"github.com/better-auth-admin/better-auth-admin/internal/web"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

const (
	sessionTable   = "sessions"
	sessionDirPerm = 0o750
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start runs the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Str("authURL", d.cfg.Auth.URL).Msg("starting web service")

		_ = d.webService.Start(addr)
	}()

	d.webService.WaitShutdown()

	return nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Audit.RetentionDays > 0 {
		pruned, err := audit.Prune(conn, cfg.Audit.RetentionDays)
		if err != nil {
			log.Warn().Err(err).Msg("failed to prune audit log")
		} else if pruned > 0 {
			log.Info().Int64("entries", pruned).Int("days", cfg.Audit.RetentionDays).Msg("pruned audit log")
		}
	}

	storage, err := sessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	session.Init(storage)

	api, err := authapi.New(cfg.Auth.URL, cfg.Auth.BasePath,
		authapi.WithTimeout(cfg.Auth.Timeout),
		authapi.WithOrigin(cfg.Webserver.URL),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create auth api client")
	}

	webService, err := web.New(cfg, conn, api)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{cfg: cfg, webService: webService}, nil
}

// sessionStorage returns the configured fiber.Storage, nil selects fiber's
// in-memory storage.
func sessionStorage(cfg *config.Config) (fiber.Storage, error) {
	s := cfg.Webserver.Session

	switch s.Storage {
	case config.SessionStorageBolt:
		if err := os.MkdirAll(filepath.Dir(s.Path), sessionDirPerm); err != nil {
			return nil, errors.Wrap(err, "failed to create session directory")
		}

		return session.NewBoltStorage(s.Path, 0)
	case config.SessionStorageDB:
		if cfg.DB.GormEngine == config.EnginePostgres {
			return sessionpostgres.New(sessionpostgres.Config{
				ConnectionURI: dsn.Postgres(cfg.DB),
				Table:         sessionTable,
			}), nil
		}

		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         sessionTable,
		}), nil
	default:
		log.Warn().Msg("sessions are kept in memory and lost on restart")

		return nil, nil //nolint:nilnil
	}
}
