// Package authapitest provides an in-memory authapi.API for tests.
package authapitest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
)

// Fake is an in-memory auth server. Set Errors[operation] to make an
// operation fail. Operation names match the method names.
type Fake struct {
	mu sync.Mutex

	Users         map[string]*authapi.User
	Passwords     map[string]string
	Sessions      map[string][]authapi.Session
	Organizations map[string]*authapi.FullOrganization
	TakenSlugs    map[string]bool

	// SignedIn maps session tokens to users signed in outside Users.
	SignedIn map[string]authapi.User

	Errors map[string]error
	Calls  []string

	// LastCookie is the cookie of the last call.
	LastCookie string

	seq int
}

var _ authapi.API = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		Users:         map[string]*authapi.User{},
		Passwords:     map[string]string{},
		Sessions:      map[string][]authapi.Session{},
		Organizations: map[string]*authapi.FullOrganization{},
		TakenSlugs:    map[string]bool{},
		SignedIn:      map[string]authapi.User{},
		Errors:        map[string]error{},
	}
}

// AddUser stores u and returns it.
func (f *Fake) AddUser(u authapi.User) authapi.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u.ID == "" {
		u.ID = f.nextID("user")
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	f.Users[u.ID] = &u

	return u
}

// AddOrganization stores o and returns it.
func (f *Fake) AddOrganization(o authapi.FullOrganization) authapi.FullOrganization {
	f.mu.Lock()
	defer f.mu.Unlock()

	if o.ID == "" {
		o.ID = f.nextID("org")
	}

	f.Organizations[o.ID] = &o
	f.TakenSlugs[o.Slug] = true

	return o
}

// Called reports whether op was invoked.
func (f *Fake) Called(op string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.Calls {
		if c == op {
			return true
		}
	}

	return false
}

// CallCount reports how often op was called.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}

	return n
}

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// enter records the call and returns the injected error, if any. Callers hold
// the lock afterwards.
func (f *Fake) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, op)
	f.LastCookie = authapi.CookieFrom(ctx)

	return f.Errors[op]
}

func (f *Fake) user(id string) (*authapi.User, error) {
	u, ok := f.Users[id]
	if !ok {
		return nil, &authapi.Error{Status: 404, Message: "User not found"}
	}

	return u, nil
}

func (f *Fake) org(id string) (*authapi.FullOrganization, error) {
	o, ok := f.Organizations[id]
	if !ok {
		return nil, authapi.ErrOrganizationNotFound
	}

	return o, nil
}

// ListUsers implements authapi.AdminAPI.
func (f *Fake) ListUsers(ctx context.Context, q authapi.ListUsersQuery) (*authapi.UserList, error) {
	err := f.enter(ctx, "ListUsers")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := &authapi.UserList{Users: []authapi.User{}}

	for _, u := range f.Users {
		if q.FilterField == "id" && u.ID != q.FilterValue {
			continue
		}

		out.Users = append(out.Users, *u)
	}

	sort.Slice(out.Users, func(i, j int) bool { return out.Users[i].ID < out.Users[j].ID })

	out.Total = len(out.Users)
	if q.Limit > 0 && len(out.Users) > q.Limit {
		out.Users = out.Users[:q.Limit]
	}

	return out, nil
}

// GetUser implements authapi.AdminAPI.
func (f *Fake) GetUser(ctx context.Context, userID string) (*authapi.User, error) {
	err := f.enter(ctx, "GetUser")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	u, ok := f.Users[userID]
	if !ok {
		return nil, authapi.ErrUserNotFound
	}

	cp := *u

	return &cp, nil
}

// CreateUser implements authapi.AdminAPI.
func (f *Fake) CreateUser(ctx context.Context, in authapi.CreateUserInput) (*authapi.User, error) {
	err := f.enter(ctx, "CreateUser")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	for _, u := range f.Users {
		if strings.EqualFold(u.Email, in.Email) {
			return nil, &authapi.Error{Status: 400, Code: "USER_ALREADY_EXISTS", Message: "User already exists"}
		}
	}

	u := &authapi.User{
		ID:        f.nextID("user"),
		Email:     in.Email,
		Name:      in.Name,
		Role:      in.Role,
		CreatedAt: time.Now(),
	}

	f.Users[u.ID] = u
	f.Passwords[u.ID] = in.Password

	cp := *u

	return &cp, nil
}

// UpdateUser implements authapi.AdminAPI.
func (f *Fake) UpdateUser(ctx context.Context, userID string, in authapi.UserUpdate) (*authapi.User, error) {
	err := f.enter(ctx, "UpdateUser")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	u, err := f.user(userID)
	if err != nil {
		return nil, err
	}

	u.Name, u.Email, u.EmailVerified = in.Name, in.Email, in.EmailVerified
	u.UpdatedAt = time.Now()

	cp := *u

	return &cp, nil
}

// SetRole implements authapi.AdminAPI.
func (f *Fake) SetRole(ctx context.Context, userID, role string) error {
	err := f.enter(ctx, "SetRole")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	u, err := f.user(userID)
	if err != nil {
		return err
	}

	u.Role = role

	return nil
}

// BanUser implements authapi.AdminAPI.
func (f *Fake) BanUser(ctx context.Context, userID, reason string) error {
	err := f.enter(ctx, "BanUser")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	u, err := f.user(userID)
	if err != nil {
		return err
	}

	u.Banned, u.BanReason = true, reason

	return nil
}

// UnbanUser implements authapi.AdminAPI.
func (f *Fake) UnbanUser(ctx context.Context, userID string) error {
	err := f.enter(ctx, "UnbanUser")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	u, err := f.user(userID)
	if err != nil {
		return err
	}

	u.Banned, u.BanReason = false, ""

	return nil
}

// RemoveUser implements authapi.AdminAPI.
func (f *Fake) RemoveUser(ctx context.Context, userID string) error {
	err := f.enter(ctx, "RemoveUser")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	if _, err = f.user(userID); err != nil {
		return err
	}

	delete(f.Users, userID)
	delete(f.Sessions, userID)

	return nil
}

// SetUserPassword implements authapi.AdminAPI.
func (f *Fake) SetUserPassword(ctx context.Context, userID, password string) error {
	err := f.enter(ctx, "SetUserPassword")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	if _, err = f.user(userID); err != nil {
		return err
	}

	f.Passwords[userID] = password

	return nil
}

// ImpersonateUser implements authapi.AdminAPI.
func (f *Fake) ImpersonateUser(ctx context.Context, userID string) (*authapi.Impersonation, error) {
	err := f.enter(ctx, "ImpersonateUser")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	u, err := f.user(userID)
	if err != nil {
		return nil, err
	}

	token := f.nextID("token")

	return &authapi.Impersonation{
		Session:    authapi.Session{ID: token, Token: token, UserID: u.ID},
		User:       *u,
		SetCookies: []string{"better-auth.session_token=" + token + "; Path=/; HttpOnly; SameSite=Lax"},
	}, nil
}

// ListUserSessions implements authapi.AdminAPI.
func (f *Fake) ListUserSessions(ctx context.Context, userID string) ([]authapi.Session, error) {
	err := f.enter(ctx, "ListUserSessions")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return append([]authapi.Session(nil), f.Sessions[userID]...), nil
}

// RevokeUserSession implements authapi.AdminAPI.
func (f *Fake) RevokeUserSession(ctx context.Context, sessionToken string) error {
	err := f.enter(ctx, "RevokeUserSession")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	for userID, sessions := range f.Sessions {
		kept := sessions[:0]

		for _, s := range sessions {
			if s.Token != sessionToken {
				kept = append(kept, s)
			}
		}

		f.Sessions[userID] = kept
	}

	return nil
}

// RevokeUserSessions implements authapi.AdminAPI.
func (f *Fake) RevokeUserSessions(ctx context.Context, userID string) error {
	err := f.enter(ctx, "RevokeUserSessions")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	delete(f.Sessions, userID)

	return nil
}

// ListOrganizations implements authapi.OrganizationAPI.
func (f *Fake) ListOrganizations(ctx context.Context) ([]authapi.Organization, error) {
	err := f.enter(ctx, "ListOrganizations")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := make([]authapi.Organization, 0, len(f.Organizations))
	for _, o := range f.Organizations {
		out = append(out, o.Organization)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// GetFullOrganization implements authapi.OrganizationAPI.
func (f *Fake) GetFullOrganization(ctx context.Context, orgID string) (*authapi.FullOrganization, error) {
	err := f.enter(ctx, "GetFullOrganization")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	o, err := f.org(orgID)
	if err != nil {
		return nil, err
	}

	cp := *o
	cp.Members = append([]authapi.Member(nil), o.Members...)
	cp.Invitations = append([]authapi.Invitation(nil), o.Invitations...)

	return &cp, nil
}

// CreateOrganization implements authapi.OrganizationAPI.
func (f *Fake) CreateOrganization(ctx context.Context, in authapi.OrganizationInput) (*authapi.Organization, error) {
	err := f.enter(ctx, "CreateOrganization")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	o := &authapi.FullOrganization{Organization: authapi.Organization{
		ID:        f.nextID("org"),
		Name:      in.Name,
		Slug:      in.Slug,
		Logo:      in.Logo,
		CreatedAt: time.Now(),
	}}

	f.Organizations[o.ID] = o
	f.TakenSlugs[in.Slug] = true

	cp := o.Organization

	return &cp, nil
}

// UpdateOrganization implements authapi.OrganizationAPI.
func (f *Fake) UpdateOrganization(ctx context.Context, orgID string, in authapi.OrganizationInput) (*authapi.Organization, error) {
	err := f.enter(ctx, "UpdateOrganization")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	o, err := f.org(orgID)
	if err != nil {
		return nil, err
	}

	delete(f.TakenSlugs, o.Slug)
	o.Name, o.Slug, o.Logo = in.Name, in.Slug, in.Logo
	f.TakenSlugs[in.Slug] = true

	cp := o.Organization

	return &cp, nil
}

// DeleteOrganization implements authapi.OrganizationAPI.
func (f *Fake) DeleteOrganization(ctx context.Context, orgID string) error {
	err := f.enter(ctx, "DeleteOrganization")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	o, err := f.org(orgID)
	if err != nil {
		return err
	}

	delete(f.TakenSlugs, o.Slug)
	delete(f.Organizations, orgID)

	return nil
}

// UpdateMemberRole implements authapi.OrganizationAPI.
func (f *Fake) UpdateMemberRole(ctx context.Context, orgID, memberID, role string) error {
	err := f.enter(ctx, "UpdateMemberRole")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	o, err := f.org(orgID)
	if err != nil {
		return err
	}

	for i := range o.Members {
		if o.Members[i].ID == memberID {
			o.Members[i].Role = role
			return nil
		}
	}

	return &authapi.Error{Status: 400, Message: "Member not found"}
}

// RemoveMember implements authapi.OrganizationAPI.
func (f *Fake) RemoveMember(ctx context.Context, orgID, memberIDOrEmail string) error {
	err := f.enter(ctx, "RemoveMember")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	o, err := f.org(orgID)
	if err != nil {
		return err
	}

	for i, m := range o.Members {
		if m.ID == memberIDOrEmail || strings.EqualFold(m.User.Email, memberIDOrEmail) {
			o.Members = append(o.Members[:i], o.Members[i+1:]...)
			return nil
		}
	}

	return &authapi.Error{Status: 400, Message: "Member not found"}
}

// InviteMember implements authapi.OrganizationAPI.
func (f *Fake) InviteMember(ctx context.Context, orgID, email, role string) (*authapi.Invitation, error) {
	err := f.enter(ctx, "InviteMember")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	o, err := f.org(orgID)
	if err != nil {
		return nil, err
	}

	inv := authapi.Invitation{
		ID:             f.nextID("inv"),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Status:         authapi.InvitationPending,
		ExpiresAt:      time.Now().Add(48 * time.Hour),
	}

	o.Invitations = append(o.Invitations, inv)

	return &inv, nil
}

// CancelInvitation implements authapi.OrganizationAPI.
func (f *Fake) CancelInvitation(ctx context.Context, invitationID string) error {
	err := f.enter(ctx, "CancelInvitation")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	for _, o := range f.Organizations {
		for i := range o.Invitations {
			if o.Invitations[i].ID == invitationID {
				o.Invitations[i].Status = authapi.InvitationCanceled
				return nil
			}
		}
	}

	return &authapi.Error{Status: 400, Message: "Invitation not found"}
}

// CheckSlug implements authapi.OrganizationAPI.
func (f *Fake) CheckSlug(ctx context.Context, slug string) (bool, error) {
	err := f.enter(ctx, "CheckSlug")
	defer f.mu.Unlock()

	if err != nil {
		return false, err
	}

	return !f.TakenSlugs[slug], nil
}

// SignInEmail implements authapi.SessionAPI.
func (f *Fake) SignInEmail(ctx context.Context, email, password string) (*authapi.SignIn, error) {
	err := f.enter(ctx, "SignInEmail")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	for id, u := range f.Users {
		if strings.EqualFold(u.Email, email) && f.Passwords[id] == password {
			return &authapi.SignIn{User: *u, Cookie: "better-auth.session_token=" + id}, nil
		}
	}

	return nil, &authapi.Error{Status: 401, Code: "INVALID_EMAIL_OR_PASSWORD", Message: "Invalid email or password"}
}

// SignOut implements authapi.SessionAPI.
func (f *Fake) SignOut(ctx context.Context) error {
	err := f.enter(ctx, "SignOut")
	defer f.mu.Unlock()

	if err != nil {
		return err
	}

	delete(f.SignedIn, sessionToken(ctx))

	return nil
}

func sessionToken(ctx context.Context) string {
	return strings.TrimPrefix(authapi.CookieFrom(ctx), "better-auth.session_token=")
}

// GetSession implements authapi.SessionAPI.
func (f *Fake) GetSession(ctx context.Context) (*authapi.CurrentSession, error) {
	err := f.enter(ctx, "GetSession")
	defer f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	token := sessionToken(ctx)

	if u, ok := f.SignedIn[token]; ok {
		return &authapi.CurrentSession{User: u}, nil
	}

	u, ok := f.Users[token]
	if !ok {
		return nil, authapi.ErrNotSignedIn
	}

	return &authapi.CurrentSession{User: *u}, nil
}
