// Package handlertest provides the fiber app, views engine and session
// helpers shared by the handler tests.
package handlertest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	fiberlogger "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/fiber"
	authmiddleware "github.com/better-auth-admin/better-auth-admin/internal/web/middleware/auth"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

// Render is one recorded template render.
type Render struct {
	Name   string
	Layout string
	Data   fiber.Map
}

// Views is a fiber.Views engine that records every render. The body is the
// template name, followed by the "Error" value when present, so tests can
// assert on messages.
type Views struct {
	mu      sync.Mutex
	renders []Render
}

// Load implements fiber.Views.
func (*Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, layout ...string) error {
	r := Render{Name: name}
	if len(layout) > 0 {
		r.Layout = layout[0]
	}

	if m, ok := data.(fiber.Map); ok {
		r.Data = m
	}

	v.mu.Lock()
	v.renders = append(v.renders, r)
	v.mu.Unlock()

	_, _ = io.WriteString(w, name)

	if msg, ok := r.Data["Error"].(string); ok && msg != "" {
		_, _ = io.WriteString(w, "\n"+msg)
	}

	return nil
}

// Last returns the most recent render.
func (v *Views) Last(t *testing.T) Render {
	t.Helper()

	v.mu.Lock()
	defer v.mu.Unlock()

	require.NotEmpty(t, v.renders, "nothing was rendered")

	return v.renders[len(v.renders)-1]
}

// Config returns a valid config for handler tests.
func Config() *config.Config {
	return &config.Config{
		Title: "Better Auth Admin",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			URL:                 "http://auth.local",
			BasePath:            "/api/auth",
			AdminRole:           authapi.RoleAdmin,
			ListLimit:           1000,
			ImpersonateRedirect: "/",
		},
		Audit: config.Audit{Enabled: true, RetentionDays: 90, RecentLimit: 10},
	}
}

// DB returns a migrated in-memory database.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")
	require.NoError(t, db.AutoMigrate(&models.AuditEntry{}))

	return db
}

// App returns a fiber app with a fresh in-memory session store, the request
// id logger and the auth middleware installed.
func App(cfg *config.Config) (*fiber.App, *Views) {
	session.Init(nil)

	views := &Views{}
	app := fiber.New(fiber.Config{Views: views})
	app.Use(fiberlogger.New())
	app.Use(authmiddleware.New(authmiddleware.Config{AdminRole: cfg.Auth.AdminRole}))

	return app, views
}

// SignIn stores a session for user and returns the Cookie header value.
func SignIn(t *testing.T, user authapi.User) string {
	t.Helper()

	id, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := session.Data{User: user, Cookie: "better-auth.session_token=" + user.ID, SignedInAt: time.Now()}
	require.NoError(t, data.Write(id, time.Minute))

	return session.CookieName + "=" + id
}

// Admin is the default signed-in user of handler tests.
var Admin = authapi.User{ID: "admin-1", Email: "root@example.com", Name: "Root", Role: authapi.RoleAdmin, EmailVerified: true} //nolint:gochecknoglobals

// Get performs a GET request.
func Get(t *testing.T, app *fiber.App, target, cookie string) *http.Response {
	t.Helper()

	return Do(t, app, httptest.NewRequest(http.MethodGet, target, nil), cookie)
}

// PostForm performs a form POST request.
func PostForm(t *testing.T, app *fiber.App, target string, form url.Values, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return Do(t, app, req, cookie)
}

// Do runs req against app.
func Do(t *testing.T, app *fiber.App, req *http.Request, cookie string) *http.Response {
	t.Helper()

	if cookie != "" {
		req.Header.Set(fiber.HeaderCookie, cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, fmt.Sprintf("%s %s", req.Method, req.URL))

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// Body reads the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}
