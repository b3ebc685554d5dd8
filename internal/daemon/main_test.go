package daemon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

func TestNewWithoutConfig(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestSessionStorageMemory(t *testing.T) {
	storage, err := sessionStorage(&config.Config{})

	require.NoError(t, err)
	assert.Nil(t, storage)
}

func TestSessionStorageBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sessions.db")

	storage, err := sessionStorage(&config.Config{
		Webserver: config.Webserver{
			Session: config.Session{Storage: config.SessionStorageBolt, Path: path},
		},
	})
	require.NoError(t, err)
	require.IsType(t, &session.BoltStorage{}, storage)

	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, storage.Set("k", []byte("v"), 0))

	got, err := storage.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNewStartsWithSQLite(t *testing.T) {
	dir := t.TempDir()

	cfg := &config.Config{
		Title: "Test",
		DB:    config.DB{GormEngine: config.EngineSQLite, Name: filepath.Join(dir, "admin.db")},
		Webserver: config.Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
			Session: config.Session{
				Storage: config.SessionStorageBolt,
				Path:    filepath.Join(dir, "sessions.db"),
			},
		},
		Auth:  config.Auth{URL: "http://auth.local"},
		Audit: config.Audit{Enabled: true, RetentionDays: 30},
	}
	cfg.Log.LogLevel = "error"
	cfg.Log.ServiceName = "test"
	cfg.Log.AppName = "test"

	d, err := New(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if s, ok := session.Store.Storage.(*session.BoltStorage); ok {
			_ = s.Close()
		}
	})

	assert.NotNil(t, d.webService.App)
}
