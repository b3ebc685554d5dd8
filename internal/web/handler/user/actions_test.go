package user_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/user"
)

func TestAdminGuards(t *testing.T) {
	tests := []struct {
		name   string
		action string
		op     string
		want   string
	}{
		{name: "ban", action: "/ban", op: "BanUser", want: user.ErrMsgCannotBanAdmin},
		{name: "delete", action: "/delete", op: "RemoveUser", want: user.ErrMsgCannotDelete},
		{name: "impersonate", action: "/impersonate", op: "ImpersonateUser", want: user.ErrMsgCannotImpersonate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			admin := e.api.AddUser(authapi.User{Email: "boss@example.com", Role: authapi.RoleAdmin})

			resp := e.post(t, user.DetailPath(admin.ID)+tt.action, url.Values{})
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			r := e.views.Last(t)
			assert.Equal(t, user.TemplateDetail, r.Name)
			assert.Equal(t, tt.want, r.Data["Error"])
			assert.False(t, e.api.Called(tt.op))

			entries := e.audit(t)
			require.Len(t, entries, 1)
			assert.Equal(t, models.OutcomeDenied, entries[0].Outcome)
			assert.Equal(t, tt.want, entries[0].Message)
		})
	}
}

func TestActions(t *testing.T) {
	tests := []struct {
		name         string
		action       string
		form         url.Values
		op           string
		wantLocation func(id string) string
		check        func(t *testing.T, e *env, id string)
	}{
		{
			name:         "ban",
			action:       "/ban",
			form:         url.Values{"reason": {"spam"}},
			op:           "BanUser",
			wantLocation: func(id string) string { return user.DetailPath(id) + "?notice=banned" },
			check: func(t *testing.T, e *env, id string) {
				assert.True(t, e.api.Users[id].Banned)
				assert.Equal(t, "spam", e.api.Users[id].BanReason)
			},
		},
		{
			name:         "unban",
			action:       "/unban",
			op:           "UnbanUser",
			wantLocation: func(id string) string { return user.DetailPath(id) + "?notice=unbanned" },
		},
		{
			name:         "delete",
			action:       "/delete",
			op:           "RemoveUser",
			wantLocation: func(string) string { return user.Path + "?notice=deleted" },
			check: func(t *testing.T, e *env, id string) {
				assert.NotContains(t, e.api.Users, id)
			},
		},
		{
			name:         "password",
			action:       "/password",
			form:         url.Values{"password": {"newsecret"}, "confirmPassword": {"newsecret"}},
			op:           "SetUserPassword",
			wantLocation: func(id string) string { return user.DetailPath(id) + "?notice=password" },
			check: func(t *testing.T, e *env, id string) {
				assert.Equal(t, "newsecret", e.api.Passwords[id])
			},
		},
		{
			name:         "revoke session",
			action:       "/sessions/revoke",
			form:         url.Values{"token": {"t1"}},
			op:           "RevokeUserSession",
			wantLocation: func(id string) string { return user.DetailPath(id) + "?notice=revoked" },
			check: func(t *testing.T, e *env, id string) {
				require.Len(t, e.api.Sessions[id], 1)
				assert.Equal(t, "t2", e.api.Sessions[id][0].Token)
			},
		},
		{
			name:         "revoke all sessions",
			action:       "/sessions/revoke-all",
			op:           "RevokeUserSessions",
			wantLocation: func(id string) string { return user.DetailPath(id) + "?notice=revoked-all" },
			check: func(t *testing.T, e *env, id string) {
				assert.Empty(t, e.api.Sessions[id])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			u := e.api.AddUser(authapi.User{Email: "jane@example.com", Role: authapi.RoleUser, Banned: true})
			e.api.Sessions[u.ID] = []authapi.Session{{Token: "t1", UserID: u.ID}, {Token: "t2", UserID: u.ID}}

			form := tt.form
			if form == nil {
				form = url.Values{}
			}

			resp := e.post(t, user.DetailPath(u.ID)+tt.action, form)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.wantLocation(u.ID), resp.Header.Get("Location"))
			assert.True(t, e.api.Called(tt.op))
			assert.Equal(t, "better-auth.session_token=admin-1", e.api.LastCookie)

			if tt.check != nil {
				tt.check(t, e, u.ID)
			}

			entries := e.audit(t)
			require.Len(t, entries, 1)
			assert.Equal(t, models.OutcomeSuccess, entries[0].Outcome)
			assert.Equal(t, u.ID, entries[0].TargetID)
		})
	}
}

func TestActionFailureShowsMessage(t *testing.T) {
	tests := []struct {
		op     string
		action string
		err    error
		want   string
	}{
		{op: "BanUser", action: "/ban", err: errors.New("boom"), want: user.ErrMsgBan},
		{op: "UnbanUser", action: "/unban", err: errors.New("boom"), want: user.ErrMsgUnban},
		{op: "RemoveUser", action: "/delete", err: &authapi.Error{Status: 403, Message: "Not allowed"}, want: "Not allowed"},
		{op: "ImpersonateUser", action: "/impersonate", err: errors.New("boom"), want: user.ErrMsgImpersonate},
		{op: "RevokeUserSessions", action: "/sessions/revoke-all", err: errors.New("boom"), want: user.ErrMsgRevokeAll},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			e := newEnv(t)
			u := e.api.AddUser(authapi.User{Email: "jane@example.com", Role: authapi.RoleUser})
			e.api.Errors[tt.op] = tt.err

			resp := e.post(t, user.DetailPath(u.ID)+tt.action, url.Values{})
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, e.views.Last(t).Data["Error"])

			entries := e.audit(t)
			require.Len(t, entries, 1)
			assert.Equal(t, models.OutcomeFailure, entries[0].Outcome)
		})
	}
}

func TestActionLoadFailure(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "ban", action: "/ban", err: errors.New("timeout"), wantStatus: http.StatusBadGateway, wantError: user.ErrMsgLoadUser},
		{name: "unban", action: "/unban", err: &authapi.Error{Status: 500, Message: "db down"}, wantStatus: http.StatusBadGateway, wantError: "db down"},
		{name: "delete", action: "/delete", err: authapi.ErrUserNotFound, wantStatus: http.StatusNotFound, wantError: user.ErrMsgUserNotFound},
		{name: "revoke all", action: "/sessions/revoke-all", err: errors.New("timeout"), wantStatus: http.StatusBadGateway, wantError: user.ErrMsgLoadUser},
		{name: "update", action: "", err: errors.New("timeout"), wantStatus: http.StatusBadGateway, wantError: user.ErrMsgLoadUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.api.Errors["GetUser"] = tt.err

			resp := e.post(t, user.DetailPath("user-1")+tt.action, url.Values{"email": {"jane@example.com"}})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			r := e.views.Last(t)
			assert.Equal(t, handler.TemplateError, r.Name)
			assert.Equal(t, tt.wantError, r.Data["Error"])
			assert.Equal(t, user.DetailPath("user-1"), r.Data["RetryURL"], "retry must be a page that answers GET")

			assert.Equal(t, 1, e.api.CallCount("GetUser"))
			assert.Empty(t, e.audit(t))
		})
	}

	// the retry target renders
	e := newEnv(t)
	u := e.api.AddUser(authapi.User{Email: "jane@example.com"})

	resp := e.get(t, user.DetailPath(u.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetPasswordValidation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "empty", form: url.Values{}, want: "Password is required"},
		{name: "short", form: url.Values{"password": {"short"}, "confirmPassword": {"other"}}, want: "Password must be at least 8 characters"},
		{name: "mismatch", form: url.Values{"password": {"longenough"}, "confirmPassword": {"different"}}, want: "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			u := e.api.AddUser(authapi.User{Email: "jane@example.com"})

			e.post(t, user.DetailPath(u.ID)+"/password", tt.form)

			assert.Equal(t, tt.want, e.views.Last(t).Data["Error"])
			assert.False(t, e.api.Called("SetUserPassword"))
		})
	}
}

func TestImpersonate(t *testing.T) {
	e := newEnv(t)
	u := e.api.AddUser(authapi.User{Email: "jane@example.com", Role: authapi.RoleUser})

	resp := e.post(t, user.DetailPath(u.ID)+"/impersonate", url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var forwarded bool

	for _, raw := range resp.Header.Values(fiber.HeaderSetCookie) {
		if raw == "better-auth.session_token=token-2; Path=/; HttpOnly; SameSite=Lax" {
			forwarded = true
		}
	}

	assert.True(t, forwarded, "impersonation cookie not forwarded: %v", resp.Header.Values(fiber.HeaderSetCookie))
}

func TestRevokeSessionRequiresToken(t *testing.T) {
	e := newEnv(t)
	u := e.api.AddUser(authapi.User{Email: "jane@example.com"})

	e.post(t, user.DetailPath(u.ID)+"/sessions/revoke", url.Values{})

	assert.Equal(t, user.ErrMsgRevokeSession, e.views.Last(t).Data["Error"])
	assert.False(t, e.api.Called("RevokeUserSession"))
}
