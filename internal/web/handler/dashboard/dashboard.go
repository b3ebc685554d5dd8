// Package dashboard provides the landing page with user statistics.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/listview"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.DashboardPath

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// ErrMsgLoadStats is shown when the user list can not be fetched.
	ErrMsgLoadStats = "Failed to load stats"
)

// QuickLink is a shortcut shown below the statistics.
type QuickLink struct {
	Title       string
	Description string
	URL         string
}

// QuickLinks are the dashboard shortcuts in display order.
var QuickLinks = []QuickLink{ //nolint:gochecknoglobals
	{Title: "View All Users", Description: "Browse and manage user accounts", URL: "/dashboard/users"},
	{Title: "Add New User", Description: "Create a user with email and password", URL: "/dashboard/users/new"},
	{Title: "Organizations", Description: "Manage organizations and their members", URL: "/dashboard/organizations"},
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	api   authapi.API
	audit handler.Auditor
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, api authapi.API) {
	if app == nil || cfg == nil || db == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.api = api
	s.audit = handler.NewAuditor(cfg, db)

	app.Get(Path, s.Get)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.ForSection("Dashboard", navigation.SectionDashboard, "dashboard")

	list, err := s.api.ListUsers(handler.APIContext(c), authapi.ListUsersQuery{Limit: s.cfg.Auth.ListLimit})
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch users for the dashboard")

		return handler.RenderError(c, nav, authapi.Message(err, ErrMsgLoadStats))
	}

	stats := listview.CountUsers(list.Users, list.Total)

	log.Debug().
		Int("total", stats.Total).
		Int("active", stats.Active).
		Int("banned", stats.Banned).
		Int("unverified", stats.Unverified).
		Msg("dashboard stats")

	return c.Render(TemplateName, handler.View(c, nav, fiber.Map{
		"Stats":      stats,
		"QuickLinks": QuickLinks,
		"Audit":      s.audit.Recent(),
	}), handler.BaseLayout)
}
