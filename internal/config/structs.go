package config

import (
	"time"

	"github.com/better-auth-admin/better-auth-admin/internal/logger"
)

// Session storage backends.
const (
	SessionStorageMemory = "memory" // fiber in-memory store, lost on restart
	SessionStorageBolt   = "bbolt"  // single file key/value store
	SessionStorageDB     = "db"     // session table in the mysql or postgres DB
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	Storage    string // memory, bbolt or db
	Path       string // bbolt file, only used with Storage = "bbolt"
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Auth      Auth
	Dashboard Dashboard
	Audit     Audit
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover      bool    // disable recover middleware
	Port                int     // listening port for the webserver
	ShutDownTime        int     // seconds /health answers 503 before the server stops
	URL                 string  // public base url of the dashboard, also sent as Origin upstream
	CookieEncryptionKey string  // base64 key for the encryptcookie middleware, empty disables it
	Session             Session // session settings
}

// Auth describes the remote better-auth server.
type Auth struct {
	URL                 string        // base url of the auth server
	BasePath            string        // mount path of the auth routes
	AdminRole           string        // role required to sign in to the dashboard
	ListLimit           int           // upper bound of users fetched for a list page
	Timeout             time.Duration // per call timeout
	ImpersonateRedirect string        // where the browser goes after impersonating a user
	SessionRecheck      time.Duration // how long a session confirmed by get-session is trusted
}

// Dashboard configures the prebuilt single-page dashboard.
type Dashboard struct {
	Enabled   bool
	MountPath string
	ClientDir string
	AuthURL   string // injected into the page, defaults to Auth.URL
}

// Audit configures the admin action log.
type Audit struct {
	Enabled       bool
	RetentionDays int // entries older than this are pruned at start, 0 keeps everything
	RecentLimit   int // entries shown on the dashboard
}
