// Package login provides the sign-in page of the dashboard.
//
// Credentials are checked by the auth server. Only users carrying the admin
// role get a dashboard session, everyone else is signed out upstream again.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrAccessDenied is shown to signed-in users without the admin role.
	ErrAccessDenied = errors.New("Access denied. Admin privileges required.") //nolint:revive,stylecheck

	// ErrInvalidCredentials is shown when the auth server gave no reason.
	ErrInvalidCredentials = errors.New("Invalid email or password") //nolint:revive,stylecheck

	// ErrInternalServerError is returned for unexpected failures during the login process.
	ErrInternalServerError = errors.New("internal server error")
)
