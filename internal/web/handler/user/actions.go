package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
)

// action is the shared flow of the detail page buttons: load the target,
// check the admin guard, run the call and redirect or re-render.
type action struct {
	name   string
	notice string
	failed string

	// guard is shown when the target carries the admin role. Empty allows
	// admins as targets.
	guard string

	run func(c *fiber.Ctx, u authapi.User) error

	// redirect overrides the detail page as the success target.
	redirect string
}

func (s *Service) do(c *fiber.Ctx, a action) error {
	userID := c.Params("id")

	u, err := s.api.GetUser(handler.APIContext(c), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Str("action", a.name).Msg("failed to load user")

		return renderLoadError(c, userID, err)
	}

	if a.guard != "" && u.Role == s.cfg.Auth.AdminRole {
		log.Warn().Str("user", u.ID).Str("action", a.name).Msg("action on admin user refused")

		s.audit.Record(c, models.AuditEntry{
			Action:      a.name,
			TargetType:  models.TargetUser,
			TargetID:    u.ID,
			TargetLabel: u.Email,
			Outcome:     models.OutcomeDenied,
			Message:     a.guard,
		})

		return s.renderDetail(c, userID, "", a.guard)
	}

	err = a.run(c, *u)
	s.record(c, a.name, *u, err)

	if err != nil {
		log.Error().Err(err).Str("user", u.ID).Str("action", a.name).Msg("user action failed")

		return s.renderDetail(c, userID, "", authapi.Message(err, a.failed))
	}

	target := a.redirect
	if target == "" {
		target = DetailPath(u.ID)
	}

	if a.notice == "" {
		return c.Redirect(target)
	}

	return c.Redirect(withNotice(target, a.notice))
}

// Ban bans a non admin user.
func (s *Service) Ban(c *fiber.Ctx) error {
	var form BanForm
	_ = c.BodyParser(&form) // the reason is optional

	return s.do(c, action{
		name:   "user.ban",
		notice: "banned",
		failed: ErrMsgBan,
		guard:  ErrMsgCannotBanAdmin,
		run: func(c *fiber.Ctx, u authapi.User) error {
			return s.api.BanUser(handler.APIContext(c), u.ID, form.Reason)
		},
	})
}

// Unban lifts a ban.
func (s *Service) Unban(c *fiber.Ctx) error {
	return s.do(c, action{
		name:   "user.unban",
		notice: "unbanned",
		failed: ErrMsgUnban,
		run: func(c *fiber.Ctx, u authapi.User) error {
			return s.api.UnbanUser(handler.APIContext(c), u.ID)
		},
	})
}

// Delete removes a non admin user and returns to the list.
func (s *Service) Delete(c *fiber.Ctx) error {
	return s.do(c, action{
		name:     "user.delete",
		notice:   "deleted",
		failed:   ErrMsgDelete,
		guard:    ErrMsgCannotDelete,
		redirect: Path,
		run: func(c *fiber.Ctx, u authapi.User) error {
			return s.api.RemoveUser(handler.APIContext(c), u.ID)
		},
	})
}

// SetPassword validates and sets a new password.
func (s *Service) SetPassword(c *fiber.Ctx) error {
	userID := c.Params("id")

	var form PasswordForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderDetail(c, userID, "", ErrMsgInvalidForm)
	}

	if msg := handler.Validator.FirstMessage(form, passwordRules, ErrMsgSetPassword); msg != "" {
		return s.renderDetail(c, userID, "", msg)
	}

	return s.do(c, action{
		name:   "user.set_password",
		notice: "password",
		failed: ErrMsgSetPassword,
		run: func(c *fiber.Ctx, u authapi.User) error {
			return s.api.SetUserPassword(handler.APIContext(c), u.ID, form.Password)
		},
	})
}

// Impersonate starts a session as the user. The auth server's session
// cookies are handed to the browser, which then leaves the dashboard.
func (s *Service) Impersonate(c *fiber.Ctx) error {
	return s.do(c, action{
		name:     "user.impersonate",
		failed:   ErrMsgImpersonate,
		guard:    ErrMsgCannotImpersonate,
		redirect: s.cfg.Auth.ImpersonateRedirect,
		run: func(c *fiber.Ctx, u authapi.User) error {
			imp, err := s.api.ImpersonateUser(handler.APIContext(c), u.ID)
			if err != nil {
				return err
			}

			for _, raw := range imp.SetCookies {
				c.Response().Header.Add(fiber.HeaderSetCookie, raw)
			}

			return nil
		},
	})
}

// RevokeSession revokes one session by token.
func (s *Service) RevokeSession(c *fiber.Ctx) error {
	userID := c.Params("id")

	var form RevokeForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderDetail(c, userID, "", ErrMsgInvalidForm)
	}

	if msg := handler.Validator.FirstMessage(form, nil, ErrMsgRevokeSession); msg != "" {
		return s.renderDetail(c, userID, "", msg)
	}

	return s.do(c, action{
		name:   "user.revoke_session",
		notice: "revoked",
		failed: ErrMsgRevokeSession,
		run: func(c *fiber.Ctx, _ authapi.User) error {
			return s.api.RevokeUserSession(handler.APIContext(c), form.Token)
		},
	})
}

// RevokeAllSessions revokes every session of the user.
func (s *Service) RevokeAllSessions(c *fiber.Ctx) error {
	return s.do(c, action{
		name:   "user.revoke_sessions",
		notice: "revoked-all",
		failed: ErrMsgRevokeAll,
		run: func(c *fiber.Ctx, u authapi.User) error {
			return s.api.RevokeUserSessions(handler.APIContext(c), u.ID)
		},
	})
}
