package authapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyResponse is returned when the auth server answered without data.
	ErrEmptyResponse = errors.New("auth api returned no data")

	// ErrMalformedResponse is returned when the response body can not be decoded.
	ErrMalformedResponse = errors.New("auth api returned a malformed response")

	// ErrUserNotFound is returned by GetUser when no user matches the id.
	ErrUserNotFound = errors.New("user not found")

	// ErrOrganizationNotFound is returned when get-full-organization has no result.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrNoSessionCookie is returned when a sign-in did not set a session cookie.
	ErrNoSessionCookie = errors.New("auth server did not set a session cookie")

	// ErrNotSignedIn is returned by GetSession when the cookie has no session.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrEmptyAuthURL is returned by New for an empty base URL.
	ErrEmptyAuthURL = errors.New("auth url can not be empty")
)

// Error is an error reported by the auth server.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements error.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth api: %d %s", e.Status, http.StatusText(e.Status))
	}

	return fmt.Sprintf("auth api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status of an auth server error, 0 otherwise.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}

	return 0
}

// Message returns the message the auth server reported for err, or fallback
// when there is none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
