package authapi

import (
	"encoding/json"
	"time"
)

// Roles known to the admin plugin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Organization member roles.
const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

// Invitation states.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
	InvitationCanceled = "canceled"
)

// User is an account as returned by the admin plugin.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Image         string     `json:"image,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	Role          string     `json:"role,omitempty"`
	Banned        bool       `json:"banned,omitempty"`
	BanReason     string     `json:"banReason,omitempty"`
	BanExpires    *time.Time `json:"banExpires,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserList is the list-users response.
type UserList struct {
	Users  []User `json:"users"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Session is an upstream session record.
type Session struct {
	ID             string    `json:"id"`
	Token          string    `json:"token"`
	UserID         string    `json:"userId"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IPAddress      string    `json:"ipAddress,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	ImpersonatedBy string    `json:"impersonatedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Organization as returned by the organization plugin.
type Organization struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Logo      string          `json:"logo,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// MemberUser is the user summary embedded in a member record.
type MemberUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Member links a user to an organization with a role.
type Member struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	UserID         string     `json:"userId"`
	Role           string     `json:"role"`
	CreatedAt      time.Time  `json:"createdAt"`
	User           MemberUser `json:"user"`
}

// Invitation is a pending or settled invite to an organization.
type Invitation struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expiresAt"`
	InviterID      string    `json:"inviterId"`
}

// IsPending reports whether the invitation can still be canceled.
func (i Invitation) IsPending() bool {
	return i.Status == InvitationPending
}

// FullOrganization is an organization with its members and invitations.
type FullOrganization struct {
	Organization
	Members     []Member     `json:"members"`
	Invitations []Invitation `json:"invitations"`
}

// ListUsersQuery maps to the list-users query string.
type ListUsersQuery struct {
	Limit          int
	Offset         int
	SearchValue    string
	SearchField    string
	FilterField    string
	FilterValue    string
	FilterOperator string
}

// CreateUserInput is the create-user body.
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// UserUpdate holds the editable profile fields of a user.
type UserUpdate struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

// OrganizationInput is used for create and update.
type OrganizationInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Logo string `json:"logo,omitempty"`
}

// SignIn is the result of an email sign-in.
type SignIn struct {
	User User
	// Cookie is the Cookie header value to replay on later calls.
	Cookie string
}

// Impersonation is the result of impersonate-user.
type Impersonation struct {
	Session Session
	User    User
	// SetCookies are the raw Set-Cookie values returned by the auth server.
	SetCookies []string
}

// CurrentSession is the get-session response.
type CurrentSession struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}
