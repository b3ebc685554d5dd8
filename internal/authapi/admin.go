package authapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

type userEnvelope struct {
	User *User `json:"user"`
}

type userIDBody struct {
	UserID string `json:"userId"`
}

// ListUsers calls admin/list-users.
func (c *Client) ListUsers(ctx context.Context, q ListUsersQuery) (*UserList, error) {
	query := url.Values{}

	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	setIf(query, "searchValue", q.SearchValue)
	setIf(query, "searchField", q.SearchField)
	setIf(query, "filterField", q.FilterField)
	setIf(query, "filterValue", q.FilterValue)
	setIf(query, "filterOperator", q.FilterOperator)

	var out struct {
		Users  *[]User `json:"users"`
		Total  int     `json:"total"`
		Limit  int     `json:"limit"`
		Offset int     `json:"offset"`
	}

	if _, err := c.call(ctx, "list-users", http.MethodGet, "/admin/list-users", query, nil, &out); err != nil {
		return nil, err
	}

	// an object without a users array is not an empty page
	if out.Users == nil {
		return nil, errors.Wrap(ErrMalformedResponse, "list-users: missing users")
	}

	return &UserList{Users: *out.Users, Total: out.Total, Limit: out.Limit, Offset: out.Offset}, nil
}

// GetUser finds one user by id through list-users.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	list, err := c.ListUsers(ctx, ListUsersQuery{
		Limit:          1,
		FilterField:    "id",
		FilterValue:    userID,
		FilterOperator: "eq",
	})
	if err != nil {
		return nil, err
	}

	if len(list.Users) == 0 {
		return nil, ErrUserNotFound
	}

	return &list.Users[0], nil
}

// CreateUser calls admin/create-user.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	var out userEnvelope
	if _, err := c.call(ctx, "create-user", http.MethodPost, "/admin/create-user", nil, in, &out); err != nil {
		return nil, err
	}

	if out.User == nil {
		return nil, ErrEmptyResponse
	}

	return out.User, nil
}

// UpdateUser calls admin/update-user with the editable profile fields.
func (c *Client) UpdateUser(ctx context.Context, userID string, in UserUpdate) (*User, error) {
	body := struct {
		UserID string     `json:"userId"`
		Data   UserUpdate `json:"data"`
	}{UserID: userID, Data: in}

	var out User
	if _, err := c.call(ctx, "update-user", http.MethodPost, "/admin/update-user", nil, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// SetRole calls admin/set-role.
func (c *Client) SetRole(ctx context.Context, userID, role string) error {
	body := struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}{UserID: userID, Role: role}

	_, err := c.call(ctx, "set-role", http.MethodPost, "/admin/set-role", nil, body, nil)

	return err
}

// BanUser calls admin/ban-user. An empty reason is left to the server default.
func (c *Client) BanUser(ctx context.Context, userID, reason string) error {
	body := struct {
		UserID    string `json:"userId"`
		BanReason string `json:"banReason,omitempty"`
	}{UserID: userID, BanReason: reason}

	_, err := c.call(ctx, "ban-user", http.MethodPost, "/admin/ban-user", nil, body, nil)

	return err
}

// UnbanUser calls admin/unban-user.
func (c *Client) UnbanUser(ctx context.Context, userID string) error {
	_, err := c.call(ctx, "unban-user", http.MethodPost, "/admin/unban-user", nil, userIDBody{userID}, nil)
	return err
}

// RemoveUser calls admin/remove-user.
func (c *Client) RemoveUser(ctx context.Context, userID string) error {
	_, err := c.call(ctx, "remove-user", http.MethodPost, "/admin/remove-user", nil, userIDBody{userID}, nil)
	return err
}

// SetUserPassword calls admin/set-user-password.
func (c *Client) SetUserPassword(ctx context.Context, userID, password string) error {
	body := struct {
		UserID      string `json:"userId"`
		NewPassword string `json:"newPassword"`
	}{UserID: userID, NewPassword: password}

	_, err := c.call(ctx, "set-user-password", http.MethodPost, "/admin/set-user-password", nil, body, nil)

	return err
}

// ImpersonateUser calls admin/impersonate-user. The returned Set-Cookie values
// carry the impersonated session.
func (c *Client) ImpersonateUser(ctx context.Context, userID string) (*Impersonation, error) {
	var out struct {
		Session Session `json:"session"`
		User    User    `json:"user"`
	}

	header, err := c.call(ctx, "impersonate-user", http.MethodPost, "/admin/impersonate-user", nil, userIDBody{userID}, &out)
	if err != nil {
		return nil, err
	}

	return &Impersonation{
		Session:    out.Session,
		User:       out.User,
		SetCookies: header.Values("Set-Cookie"),
	}, nil
}

// ListUserSessions calls admin/list-user-sessions.
func (c *Client) ListUserSessions(ctx context.Context, userID string) ([]Session, error) {
	var out struct {
		Sessions []Session `json:"sessions"`
	}

	if _, err := c.call(ctx, "list-user-sessions", http.MethodPost, "/admin/list-user-sessions", nil, userIDBody{userID}, &out); err != nil {
		return nil, err
	}

	return out.Sessions, nil
}

// RevokeUserSession calls admin/revoke-user-session.
func (c *Client) RevokeUserSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return errors.New("session token can not be empty")
	}

	body := struct {
		SessionToken string `json:"sessionToken"`
	}{SessionToken: sessionToken}

	_, err := c.call(ctx, "revoke-user-session", http.MethodPost, "/admin/revoke-user-session", nil, body, nil)

	return err
}

// RevokeUserSessions calls admin/revoke-user-sessions.
func (c *Client) RevokeUserSessions(ctx context.Context, userID string) error {
	_, err := c.call(ctx, "revoke-user-sessions", http.MethodPost, "/admin/revoke-user-sessions", nil, userIDBody{userID}, nil)
	return err
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
