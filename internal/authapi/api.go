// Package authapi is the client of the remote better-auth REST API.
//
// Handlers depend on the interfaces below, the daemon wires a *Client and
// tests use authapitest.Fake.
package authapi

import "context"

// AdminAPI covers the admin plugin endpoints.
type AdminAPI interface {
	ListUsers(ctx context.Context, q ListUsersQuery) (*UserList, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)
	UpdateUser(ctx context.Context, userID string, in UserUpdate) (*User, error)
	SetRole(ctx context.Context, userID, role string) error
	BanUser(ctx context.Context, userID, reason string) error
	UnbanUser(ctx context.Context, userID string) error
	RemoveUser(ctx context.Context, userID string) error
	SetUserPassword(ctx context.Context, userID, password string) error
	ImpersonateUser(ctx context.Context, userID string) (*Impersonation, error)
	ListUserSessions(ctx context.Context, userID string) ([]Session, error)
	RevokeUserSession(ctx context.Context, sessionToken string) error
	RevokeUserSessions(ctx context.Context, userID string) error
}

// OrganizationAPI covers the organization plugin endpoints.
type OrganizationAPI interface {
	ListOrganizations(ctx context.Context) ([]Organization, error)
	GetFullOrganization(ctx context.Context, orgID string) (*FullOrganization, error)
	CreateOrganization(ctx context.Context, in OrganizationInput) (*Organization, error)
	UpdateOrganization(ctx context.Context, orgID string, in OrganizationInput) (*Organization, error)
	DeleteOrganization(ctx context.Context, orgID string) error
	UpdateMemberRole(ctx context.Context, orgID, memberID, role string) error
	RemoveMember(ctx context.Context, orgID, memberIDOrEmail string) error
	InviteMember(ctx context.Context, orgID, email, role string) (*Invitation, error)
	CancelInvitation(ctx context.Context, invitationID string) error
	CheckSlug(ctx context.Context, slug string) (bool, error)
}

// SessionAPI covers sign-in and session endpoints.
type SessionAPI interface {
	SignInEmail(ctx context.Context, email, password string) (*SignIn, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*CurrentSession, error)
}

// API is the full capability set used by the dashboard.
type API interface {
	AdminAPI
	OrganizationAPI
	SessionAPI
}

var _ API = (*Client)(nil)
