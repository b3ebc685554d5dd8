package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/better-auth-admin/better-auth-admin/internal/web/navigation"
)

// RenderError renders the error state of a page that failed to load.
func RenderError(c *fiber.Ctx, nav *navigation.Context, message string) error {
	return RenderErrorStatus(c, fiber.StatusBadGateway, nav, message)
}

// RenderErrorStatus is RenderError with an explicit status code. The Retry
// link is RetryURL with the referring page, or the dashboard, as fallback.
func RenderErrorStatus(c *fiber.Ctx, status int, nav *navigation.Context, message string) error {
	return RenderErrorRetry(c, status, nav, message, RetryURL(c, localReferer(c)))
}

// RenderErrorRetry renders the error state with retry as the Retry link.
func RenderErrorRetry(c *fiber.Ctx, status int, nav *navigation.Context, message, retry string) error {
	return c.Status(status).Render(TemplateError, View(c, nav, fiber.Map{
		"Error":    message,
		"RetryURL": retry,
	}), BaseLayout)
}

// RetryURL returns the current URL for GET and HEAD requests. Form posts
// are only routed for their method, so they retry at fallback instead.
func RetryURL(c *fiber.Ctx, fallback string) string {
	switch c.Method() {
	case fiber.MethodGet, fiber.MethodHead:
		return c.OriginalURL()
	}

	if fallback == "" {
		return DashboardPath
	}

	return fallback
}

// localReferer returns the path of a same-host Referer header.
func localReferer(c *fiber.Ctx) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return ref
	}

	prefix := c.BaseURL() + "/"
	if !strings.HasPrefix(ref, prefix) {
		return ""
	}

	return "/" + strings.TrimPrefix(ref, prefix)
}

// View merges the values every page template expects into data.
func View(c *fiber.Ctx, nav *navigation.Context, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	data["Navigation"] = nav
	data["CurrentUser"] = CurrentSession(c).User

	return data
}
