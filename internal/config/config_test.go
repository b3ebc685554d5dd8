package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Auth.URL == "" {
		t.Error("Auth.URL should not be empty")
	}

	if cfg.Auth.Timeout != 15*time.Second {
		t.Errorf("Auth.Timeout = %v, want 15s", cfg.Auth.Timeout)
	}

	if cfg.Webserver.Session.ExpiryTime != 24*time.Hour {
		t.Errorf("Session.ExpiryTime = %v, want 24h", cfg.Webserver.Session.ExpiryTime)
	}

	if cfg.DB.GormEngine != EngineSQLite {
		t.Errorf("DB.GormEngine = %v, want %v", cfg.DB.GormEngine, EngineSQLite)
	}

	if cfg.Dashboard.AuthURL != cfg.Auth.URL {
		t.Errorf("Dashboard.AuthURL = %v, want it to default to Auth.URL", cfg.Dashboard.AuthURL)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(t.TempDir() + string(filepath.Separator)); err == nil {
		t.Error("ReadConfig() expected an error for a missing main.toml")
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Auth:      Auth{URL: "http://localhost:3000"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "missing auth URL",
			mutate:  func(c *Config) { c.Auth.URL = "  " },
			wantErr: ErrEmptyAuthURL,
		},
		{
			name:    "relative auth URL",
			mutate:  func(c *Config) { c.Auth.URL = "/api/auth" },
			wantErr: ErrInvalidAuthURL,
		},
		{
			name:    "ftp auth URL",
			mutate:  func(c *Config) { c.Auth.URL = "ftp://auth.local" },
			wantErr: ErrInvalidAuthURL,
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.DB.GormEngine = "oracle" },
			wantErr: ErrUnknownGormEngine,
		},
		{
			name:    "db sessions on sqlite",
			mutate:  func(c *Config) { c.Webserver.Session.Storage = SessionStorageDB },
			wantErr: ErrUnknownSessionStorage,
		},
		{
			name: "db sessions on postgres",
			mutate: func(c *Config) {
				c.DB.GormEngine = EnginePostgres
				c.Webserver.Session.Storage = SessionStorageDB
			},
		},
		{
			name:    "unknown session storage",
			mutate:  func(c *Config) { c.Webserver.Session.Storage = "redis" },
			wantErr: ErrUnknownSessionStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	c := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Auth:      Auth{URL: "https://auth.example.com"},
	}

	if err := validate(&c); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	checks := map[string]bool{
		"ShutDownTime":        c.Webserver.ShutDownTime == 5,
		"Auth.BasePath":       c.Auth.BasePath == "/api/auth",
		"Auth.AdminRole":      c.Auth.AdminRole == "admin",
		"Auth.ListLimit":      c.Auth.ListLimit == 1000,
		"Auth.Timeout":        c.Auth.Timeout == 15*time.Second,
		"ImpersonateRedirect": c.Auth.ImpersonateRedirect == "/",
		"Auth.SessionRecheck": c.Auth.SessionRecheck == 30*time.Second,
		"Dashboard.MountPath": c.Dashboard.MountPath == "/admin",
		"Dashboard.ClientDir": c.Dashboard.ClientDir == "./client/dist",
		"Dashboard.AuthURL":   c.Dashboard.AuthURL == "https://auth.example.com",
		"Session.Storage":     c.Webserver.Session.Storage == SessionStorageMemory,
		"Session.ExpiryTime":  c.Webserver.Session.ExpiryTime == 24*time.Hour,
		"DB.GormEngine":       c.DB.GormEngine == EngineSQLite,
		"DB.Name":             c.DB.Name == "./data/admin.db",
		"Audit.RetentionDays": c.Audit.RetentionDays == 90,
		"Audit.RecentLimit":   c.Audit.RecentLimit == 10,
	}

	for name, ok := range checks {
		if !ok {
			t.Errorf("default for %s not applied", name)
		}
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090},"Auth":{"URL":"https://auth.example.com"}}`
	t.Setenv(EnvConfigJSON, jsonOverride)

	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}

	// untouched keys survive the merge
	if cfg.Webserver.URL != "http://localhost:8080" {
		t.Errorf("Webserver.URL = %v, want the toml value", cfg.Webserver.URL)
	}

	if cfg.Auth.URL != "https://auth.example.com" {
		t.Errorf("Auth.URL = %v, want override", cfg.Auth.URL)
	}
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	if _, err := ReadConfig(testConfigPath(t)); err == nil {
		t.Error("ReadConfig() expected an error for broken JSON override")
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		Auth: Auth{URL: "http://auth.local"},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if !strings.Contains(tomlStr, "Test") {
		t.Error("DumpConfig() output should contain Title")
	}

	if !strings.Contains(tomlStr, "http://auth.local") {
		t.Error("DumpConfig() output should contain Auth.URL")
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title: "Test",
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if !strings.Contains(jsonStr, `"Title": "Test"`) {
		t.Error("DumpConfigJSON() output should contain Title")
	}
}
