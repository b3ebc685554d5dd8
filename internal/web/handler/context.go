package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	fiberlogger "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/fiber"
	"github.com/better-auth-admin/better-auth-admin/internal/web/session"
)

// CurrentSession returns the session the auth middleware attached to c.
func CurrentSession(c *fiber.Ctx) *session.Data {
	if sess, ok := c.Locals(LocalsSession).(*session.Data); ok && sess != nil {
		return sess
	}

	return &session.Data{}
}

// APIContext returns the context for auth API calls made on behalf of the
// signed-in admin: the upstream cookie and the request id travel with it.
func APIContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	ctx = authapi.WithCookie(ctx, CurrentSession(c).Cookie)

	if id := fiberlogger.RequestID(c); id != "" {
		ctx = authapi.WithRequestID(ctx, id)
	}

	return ctx
}
