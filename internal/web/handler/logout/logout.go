// Package logout ends the dashboard session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

// Path is the logout route.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	api   authapi.API
	audit handler.Auditor
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, api authapi.API) {
	if app == nil || cfg == nil || db == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.api = api
	s.audit = handler.NewAuditor(cfg, db)

	// logout route (outside auth middleware protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)
}

// Logout signs the admin out upstream and clears the local session. An
// upstream failure does not keep the admin signed in.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)
	if sessionID != "" {
		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err == nil && sessData.Valid() {
			c.Locals(handler.LocalsSession, sessData)

			err = s.api.SignOut(handler.APIContext(c))
			if err != nil {
				log.Warn().Err(err).Str("user", sessData.User.ID).Msg("upstream sign-out failed")
			}

			s.audit.Record(c, models.AuditEntry{
				Action:      "auth.sign_out",
				TargetType:  models.TargetUser,
				TargetID:    sessData.User.ID,
				TargetLabel: sessData.User.Email,
				Outcome:     handler.Outcome(err),
			})
		}

		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(handler.LoginPath)
}
