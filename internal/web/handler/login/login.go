package login

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the login template, rendered without the base layout.
	TemplateName = "login"

	actionSignIn = "auth.sign_in"
)

// Form is the submitted login form.
type Form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	api   authapi.API
	audit handler.Auditor
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, api authapi.API) {
	if app == nil || cfg == nil || db == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.api = api
	s.audit = handler.NewAuditor(cfg, db)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", "")
}

func (s *Service) render(c *fiber.Ctx, email, errMsg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"Email": email,
		"Error": errMsg,
	})
}

// Post signs the admin in through the auth server.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return s.render(c, "", ErrInvalidFormData.Error())
	}

	form.Email = strings.TrimSpace(form.Email)

	if form.Email == "" || form.Password == "" {
		return s.render(c, form.Email, "Email and password are required")
	}

	ctx := handler.APIContext(c)

	signIn, err := s.api.SignInEmail(ctx, form.Email, form.Password)
	if err != nil {
		log.Info().Err(err).Str("email", form.Email).Msg("sign-in failed")

		return s.render(c, form.Email, authapi.Message(err, ErrInvalidCredentials.Error()))
	}

	if signIn.User.Role != s.cfg.Auth.AdminRole {
		// do not leave a session for a non admin behind upstream
		if err = s.api.SignOut(authapi.WithCookie(ctx, signIn.Cookie)); err != nil {
			log.Warn().Err(err).Str("user", signIn.User.ID).Msg("failed to sign out non admin user")
		}

		s.audit.Record(c, models.AuditEntry{
			Action:      actionSignIn,
			ActorID:     signIn.User.ID,
			ActorEmail:  signIn.User.Email,
			TargetType:  models.TargetUser,
			TargetID:    signIn.User.ID,
			TargetLabel: signIn.User.Email,
			Outcome:     models.OutcomeDenied,
			Message:     ErrAccessDenied.Error(),
		})

		return s.render(c, form.Email, ErrAccessDenied.Error())
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return s.render(c, form.Email, ErrInternalServerError.Error())
	}

	userSession := &session.Data{
		User:       signIn.User,
		Cookie:     signIn.Cookie,
		SignedInAt: c.Context().Time(),
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.render(c, form.Email, ErrInternalServerError.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	c.Locals(handler.LocalsSession, userSession)

	s.audit.Record(c, models.AuditEntry{
		Action:      actionSignIn,
		TargetType:  models.TargetUser,
		TargetID:    signIn.User.ID,
		TargetLabel: signIn.User.Email,
	})

	return c.Redirect(handler.DashboardPath)
}
