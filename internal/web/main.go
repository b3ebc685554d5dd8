// Package web assembles the fiber app of the dashboard.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	fiberlogger "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/fiber"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/dashboard"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/login"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/logout"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/organization"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/user"
	authmiddleware "github.com/better-auth-admin/better-auth-admin/internal/web/middleware/auth"
	"github.com/better-auth-admin/better-auth-admin/spa"
)

const (
	// AppName is reported by fiber and shown in the page titles.
	AppName = "Better Auth Admin"

	// HealthPath answers load balancer checks.
	HealthPath = "/health"

	// MetricsPath serves the prometheus registry.
	MetricsPath = "/metrics"

	devTemplateDir = "./internal/web/templates"
)

var (
	// ErrNilConfig is returned by New without a config.
	ErrNilConfig = errors.New("web: config cannot be nil")

	// ErrNilDB is returned by New without a database.
	ErrNilDB = errors.New("web: db cannot be nil")

	// ErrNilAPI is returned by New without an auth API client.
	ErrNilAPI = errors.New("web: auth api cannot be nil")
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	api          authapi.API
}

// Start starts the web service on the given address and blocks until the
// server stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so /health returns 503.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether /health answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// SetAlive switches the /health answer.
func (s *Service) SetAlive(alive bool) {
	s.alive.Store(alive)
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(http.FS(subFS{content: embeddedTemplates, dir: "templates"}), ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New(devTemplateDir, ".gohtml")
		engine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	engine.AddFuncMap(templateFuncs())

	return engine
}

// New creates the web service: middleware, pages, health, metrics and the
// optional single-page dashboard.
func New(cfg *config.Config, db *gorm.DB, api authapi.API) (*Service, error) {
	switch {
	case cfg == nil:
		return nil, ErrNilConfig
	case db == nil:
		return nil, ErrNilDB
	case api == nil:
		return nil, ErrNilAPI
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        AppName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg),
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
		db:           db,
		api:          api,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log, HealthURI: HealthPath}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Webserver.CookieEncryptionKey}))
	}

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				MaxAge:     3600, //nolint:mnd
			},
		),
	)

	var public []string
	if cfg.Dashboard.Enabled {
		public = append(public, cfg.Dashboard.MountPath)
	}

	app.Use(authmiddleware.New(authmiddleware.Config{
		AdminRole: cfg.Auth.AdminRole,
		Public:    public,
		Sessions:  api,
		Recheck:   cfg.Auth.SessionRecheck,
	}))

	app.Get(HealthPath, service.health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	if cfg.Dashboard.Enabled {
		adapter, err := spa.New(spa.Options{
			AuthURL:   cfg.Dashboard.AuthURL,
			Title:     cfg.Title,
			ClientDir: cfg.Dashboard.ClientDir,
		})
		if err != nil {
			return nil, err
		}

		adapter.Mount(app, cfg.Dashboard.MountPath)
		log.Info().Str("mountPath", cfg.Dashboard.MountPath).Msg("single-page dashboard enabled")
	}

	// init handlers, they register their own routes
	login.Handler.Init(app, cfg, db, api)
	logout.Handler.Init(app, cfg, db, api)
	dashboard.Handler.Init(app, cfg, db, api)
	user.Handler.Init(app, cfg, db, api)
	organization.Handler.Init(app, cfg, db, api)

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(handler.DashboardPath)
	})

	return service, nil
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "shutting down",
			"timestamp": time.Now().UTC(),
		})
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
