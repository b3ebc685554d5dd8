// Package auth provides the session middleware of the dashboard.
//
// The middleware reads the session cookie, loads the session data and
// checks the user still carries the admin role. Valid sessions are put into
// fiber.Locals for handlers and templates, everything else is redirected to
// the login page.
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{AdminRole: "admin"}))
package auth
