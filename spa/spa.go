// Package spa serves the prebuilt admin dashboard bundle.
//
// Files of the bundle are served as static assets. Every other path gets the
// bundle's index.html with the runtime configuration injected as
// window.__BETTER_AUTH_ADMIN__, so one build can point at any auth server.
package spa

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultClientDir is used when Options.ClientDir is empty.
	DefaultClientDir = "./client/dist"

	// GlobalName is the window property holding the runtime configuration.
	GlobalName = "__BETTER_AUTH_ADMIN__"

	// AssetCacheControl is sent with static files.
	AssetCacheControl = "public, max-age=86400"

	// DocumentCacheControl is sent with the index document.
	DocumentCacheControl = "no-cache, no-store, must-revalidate"

	indexFile = "index.html"

	// FallbackHTML is served when the bundle has no index.html.
	FallbackHTML = `<!DOCTYPE html>
<html>
<head><title>Better Auth Admin - Error</title></head>
<body>
<h1>Error</h1>
<p>Failed to load admin dashboard. Make sure the client is built.</p>
</body>
</html>`
)

// ErrAuthURLRequired is returned by New when Options.AuthURL is empty.
var ErrAuthURLRequired = errors.New("spa: auth url is required")

// Options configures an Adapter.
type Options struct {
	// AuthURL is the base URL of the auth server the dashboard talks to.
	AuthURL string

	// Title overrides the dashboard title. Optional.
	Title string

	// ClientDir is the directory of the built bundle.
	ClientDir string
}

// RuntimeConfig is the object injected into the document.
type RuntimeConfig struct {
	AuthURL string `json:"authUrl"`
	Title   string `json:"title,omitempty"`
}

// Adapter serves one bundle with one runtime configuration.
type Adapter struct {
	root   string
	script string

	once     sync.Once
	document string
}

// New validates opts and returns an Adapter. The index document is read on
// the first request that needs it.
func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.AuthURL) == "" {
		return nil, ErrAuthURLRequired
	}

	dir := opts.ClientDir
	if dir == "" {
		dir = DefaultClientDir
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	script, err := configScript(RuntimeConfig{AuthURL: opts.AuthURL, Title: opts.Title})
	if err != nil {
		return nil, err
	}

	return &Adapter{root: root, script: script}, nil
}

// configScript renders the script tag. encoding/json escapes <, > and & so a
// title can not close the tag.
func configScript(cfg RuntimeConfig) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return "<script>window." + GlobalName + " = " + string(raw) + ";</script>", nil
}

// Document returns the index document, reading and rewriting it once. When
// index.html can not be read the failure is logged and FallbackHTML is
// cached instead.
func (a *Adapter) Document() string {
	a.once.Do(func() {
		raw, err := os.ReadFile(filepath.Join(a.root, indexFile))
		if err != nil {
			log.Error().Err(err).Str("dir", a.root).Msg("spa: can't read index.html, serving fallback page")

			a.document = FallbackHTML

			return
		}

		a.document = string(inject(raw, a.script))
	})

	return a.document
}

// inject places script right before the first </head>. A document without
// </head> is returned unchanged.
func inject(doc []byte, script string) []byte {
	return bytes.Replace(doc, []byte("</head>"), []byte(script+"</head>"), 1)
}

// Mount registers the adapter below prefix on router.
func (a *Adapter) Mount(router fiber.Router, prefix string) {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	group := router.Group(prefix)
	group.Use(a.assets(prefix))
	group.Get("/", a.index)
	group.Get("/*", a.index)
}

// Handler returns the adapter as a net/http handler mounted at the root.
func (a *Adapter) Handler() http.Handler {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	a.Mount(app, "/")

	return adaptor.FiberApp(app)
}

// assets serves regular files of the bundle. index.html and directories fall
// through to the document handler.
func (a *Adapter) assets(prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return c.Next()
		}

		file, ok := a.resolve(strings.TrimPrefix(c.Path(), prefix))
		if !ok {
			return c.Next()
		}

		if err := c.SendFile(file); err != nil {
			return err
		}

		c.Set(fiber.HeaderCacheControl, AssetCacheControl)

		return nil
	}
}

// resolve maps a request path to a regular file below root.
func (a *Adapter) resolve(p string) (string, bool) {
	clean := path.Clean("/" + p)
	if clean == "/" || clean == "/"+indexFile {
		return "", false
	}

	file := filepath.Join(a.root, filepath.FromSlash(clean))

	info, err := os.Stat(file)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	return file, true
}

func (a *Adapter) index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderCacheControl, DocumentCacheControl)

	return c.Status(fiber.StatusOK).SendString(a.Document())
}
