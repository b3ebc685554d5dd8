// Package db opens the gorm connection for the configured engine.
package db

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db/dsn"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	gormadapter "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/gorm"
)

const dataDirPerm = 0o750

// Dialector returns the gorm dialector for cfg.DB.GormEngine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Create(cfg)), nil
	case config.EngineSQLite, "":
		if err := ensureDir(cfg.DB.Name); err != nil {
			return nil, err
		}

		return sqlite.Open(dsn.SQLite(cfg.DB)), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}
}

// Open connects and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	slow := time.Duration(cfg.Log.SlowQueryThreshold) * time.Millisecond

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: gormadapter.New(slow)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	if err = Migrate(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(conn *gorm.DB) error {
	return errors.Wrap(conn.AutoMigrate(&models.AuditEntry{}), "failed to migrate database")
}

func ensureDir(name string) error {
	if name == "" || name == ":memory:" || strings.HasPrefix(name, "file:") {
		return nil
	}

	dir := filepath.Dir(name)
	if dir == "." {
		return nil
	}

	return errors.Wrap(os.MkdirAll(dir, dataDirPerm), "can't create database directory")
}
