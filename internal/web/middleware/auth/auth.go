package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	fiberlogger "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/fiber"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

const (
	recheckCacheSize = 1024
	defaultRecheck   = 30 * time.Second
)

// Config of the middleware.
type Config struct {
	// AdminRole is the role a session user must carry.
	AdminRole string

	// Public lists path prefixes served without a session.
	Public []string

	// Sessions confirms stored sessions against the auth server. Nil
	// trusts the local session store alone.
	Sessions authapi.SessionAPI

	// Recheck is how long a confirmed session is trusted before the auth
	// server is asked again.
	Recheck time.Duration
}

// DefaultPublic are the prefixes that never require a session.
var DefaultPublic = []string{"/static", "/logout", "/health", "/metrics"} //nolint:gochecknoglobals

// New returns the middleware. The login page itself is reachable without a
// session, a signed-in admin visiting it is sent to the dashboard.
func New(cfg Config) fiber.Handler {
	public := append([]string{}, DefaultPublic...)
	public = append(public, cfg.Public...)

	var verify *verifier
	if cfg.Sessions != nil {
		verify = newVerifier(cfg.Sessions, cfg.AdminRole, cfg.Recheck)
	}

	return func(c *fiber.Ctx) error {
		path := strings.ToLower(c.Path())

		if isPublic(path, public) {
			return c.Next()
		}

		loginPage := hasPrefix(path, handler.LoginPath)
		sessionID := c.Cookies(session.CookieName)

		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err != nil || !sessData.Valid() {
			if loginPage {
				return c.Next()
			}

			return c.Redirect(handler.LoginPath)
		}

		drop := func() error {
			if err := session.Delete(sessionID); err != nil {
				log.Error().Err(err).Msg("failed to delete session")
			}

			if loginPage {
				return c.Next()
			}

			return c.Redirect(handler.LoginPath)
		}

		if cfg.AdminRole != "" && sessData.User.Role != cfg.AdminRole {
			log.Warn().Str("user", sessData.User.ID).Msg("session user is no admin anymore, dropping session")

			return drop()
		}

		if verify != nil && !verify.check(c, sessionID, sessData) {
			return drop()
		}

		if loginPage {
			return c.Redirect(handler.DashboardPath)
		}

		c.Locals(handler.LocalsSession, sessData)
		c.Locals(handler.LocalsCurrentUser, sessData.User)

		return c.Next()
	}
}

// verifier asks the auth server whether a stored session is still signed
// in with the admin role. Confirmations are cached per session for the
// recheck interval.
type verifier struct {
	api       authapi.SessionAPI
	adminRole string
	confirmed *lru.LRU[string, struct{}]
}

func newVerifier(api authapi.SessionAPI, adminRole string, recheck time.Duration) *verifier {
	if recheck <= 0 {
		recheck = defaultRecheck
	}

	return &verifier{
		api:       api,
		adminRole: adminRole,
		confirmed: lru.NewLRU[string, struct{}](recheckCacheSize, nil, recheck),
	}
}

// check reports whether the session may be used. An unreachable auth
// server keeps the session, the next request asks again.
func (v *verifier) check(c *fiber.Ctx, sessionID string, data *session.Data) bool {
	if _, ok := v.confirmed.Get(sessionID); ok {
		return true
	}

	ctx := authapi.WithCookie(c.UserContext(), data.Cookie)
	if id := fiberlogger.RequestID(c); id != "" {
		ctx = authapi.WithRequestID(ctx, id)
	}

	current, err := v.api.GetSession(ctx)

	switch {
	case errors.Is(err, authapi.ErrNotSignedIn) || authapi.StatusOf(err) == http.StatusUnauthorized:
		log.Info().Str("user", data.User.ID).Msg("session ended on the auth server, dropping session")

		return false
	case err != nil:
		log.Warn().Err(err).Str("user", data.User.ID).Msg("failed to confirm session with the auth server")

		return true
	case current.User.ID != data.User.ID:
		log.Warn().Str("user", data.User.ID).Str("upstream", current.User.ID).Msg("session belongs to another user, dropping session")

		return false
	case v.adminRole != "" && current.User.Role != v.adminRole:
		log.Warn().Str("user", data.User.ID).Msg("session user is no admin anymore, dropping session")

		return false
	}

	v.confirmed.Add(sessionID, struct{}{})

	return true
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefix(path, strings.ToLower(p)) {
			return true
		}
	}

	return false
}

// hasPrefix matches whole path segments, /login matches /login/ but not
// /loginx.
func hasPrefix(path, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return false
	}

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
