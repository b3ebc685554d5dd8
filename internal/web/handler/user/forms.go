package user

import (
	"strings"

	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
)

// Messages shown when the form or the auth server rejects an action.
const (
	ErrMsgLoadUsers         = "Failed to load users"
	ErrMsgLoadUser          = "Failed to load user"
	ErrMsgUserNotFound      = "User not found"
	ErrMsgLoadSessions      = "Failed to load sessions"
	ErrMsgCreate            = "Failed to create user"
	ErrMsgUpdate            = "Failed to update user"
	ErrMsgUpdateRole        = "Failed to update role"
	ErrMsgBan               = "Failed to ban user"
	ErrMsgUnban             = "Failed to unban user"
	ErrMsgDelete            = "Failed to delete user"
	ErrMsgSetPassword       = "Failed to set password"
	ErrMsgImpersonate       = "Failed to impersonate user"
	ErrMsgRevokeSession     = "Failed to revoke session"
	ErrMsgRevokeAll         = "Failed to revoke all sessions"
	ErrMsgInvalidForm       = "Invalid form data"
	ErrMsgInvalidRole       = "Invalid role"
	ErrMsgCannotBanAdmin    = "Cannot ban an admin user"
	ErrMsgCannotDelete      = "Cannot delete an admin user"
	ErrMsgCannotImpersonate = "Cannot impersonate admin users"
)

// CreateForm is the new user form.
type CreateForm struct {
	Name            string `form:"name"`
	Email           string `form:"email"           validate:"required"`
	Password        string `form:"password"        validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
	Role            string `form:"role"            validate:"oneof=user admin"`
}

var createRules = []handler.Rule{ //nolint:gochecknoglobals
	{Field: "Email", Tag: "required", Message: "Email and password are required"},
	{Field: "Password", Tag: "required", Message: "Email and password are required"},
	{Field: "ConfirmPassword", Tag: "eqfield", Message: "Passwords do not match"},
	{Field: "Password", Tag: "min", Message: "Password must be at least 8 characters"},
	{Field: "Role", Tag: "oneof", Message: ErrMsgInvalidRole},
}

func (f *CreateForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)

	if f.Role == "" {
		f.Role = "user"
	}
}

// UpdateForm is the profile form of the detail page.
type UpdateForm struct {
	Name          string `form:"name"`
	Email         string `form:"email"         validate:"required"`
	EmailVerified bool   `form:"emailVerified"`
	Role          string `form:"role"          validate:"omitempty,oneof=user admin"`
}

var updateRules = []handler.Rule{ //nolint:gochecknoglobals
	{Field: "Email", Tag: "required", Message: "Email is required"},
	{Field: "Role", Tag: "oneof", Message: ErrMsgInvalidRole},
}

func (f *UpdateForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
}

// PasswordForm sets a new password for a user.
type PasswordForm struct {
	Password        string `form:"password"        validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
}

var passwordRules = []handler.Rule{ //nolint:gochecknoglobals
	{Field: "Password", Tag: "required", Message: "Password is required"},
	{Field: "Password", Tag: "min", Message: "Password must be at least 8 characters"},
	{Field: "ConfirmPassword", Tag: "eqfield", Message: "Passwords do not match"},
}

// BanForm carries the optional ban reason.
type BanForm struct {
	Reason string `form:"reason"`
}

// RevokeForm names the session to revoke.
type RevokeForm struct {
	Token string `form:"token" validate:"required"`
}
