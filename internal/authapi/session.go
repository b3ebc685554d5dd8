package authapi

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// SignInEmail signs in with email and password. The returned cookie is what
// later calls have to replay through WithCookie.
func (c *Client) SignInEmail(ctx context.Context, email, password string) (*SignIn, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out struct {
		User *User `json:"user"`
	}

	header, err := c.call(ctx, "sign-in-email", http.MethodPost, "/sign-in/email", nil, body, &out)
	if err != nil {
		return nil, err
	}

	if out.User == nil {
		return nil, ErrEmptyResponse
	}

	cookie := cookieHeader(header)
	if cookie == "" {
		return nil, ErrNoSessionCookie
	}

	return &SignIn{User: *out.User, Cookie: cookie}, nil
}

// SignOut ends the session carried by ctx.
func (c *Client) SignOut(ctx context.Context) error {
	_, err := c.call(ctx, "sign-out", http.MethodPost, "/sign-out", nil, struct{}{}, nil)
	return err
}

// GetSession returns the session carried by ctx.
func (c *Client) GetSession(ctx context.Context) (*CurrentSession, error) {
	var out CurrentSession

	_, err := c.call(ctx, "get-session", http.MethodGet, "/get-session", nil, nil, &out)
	if errors.Is(err, ErrEmptyResponse) {
		return nil, ErrNotSignedIn
	}

	if err != nil {
		return nil, err
	}

	return &out, nil
}
