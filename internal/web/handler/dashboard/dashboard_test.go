package dashboard_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/authapi/authapitest"
	"github.com/better-auth-admin/better-auth-admin/internal/db/controller/audit"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	"github.com/better-auth-admin/better-auth-admin/internal/listview"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/dashboard"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler/handlertest"
	"github.com/better-auth-admin/better-auth-admin/internal/web/navigation"
)

func TestGet(t *testing.T) {
	cfg := handlertest.Config()
	db := handlertest.DB(t)
	api := authapitest.New()

	api.AddUser(authapi.User{Email: "a@example.com", EmailVerified: true})
	api.AddUser(authapi.User{Email: "b@example.com", EmailVerified: true, Banned: true})
	api.AddUser(authapi.User{Email: "c@example.com"})
	api.AddUser(authapi.User{Email: "d@example.com", Banned: true})

	require.NoError(t, audit.Record(db, &models.AuditEntry{Action: "user.ban", TargetType: models.TargetUser, TargetID: "user-2"}))

	app, views := handlertest.App(cfg)

	svc := &dashboard.Service{}
	svc.Init(app, cfg, db, api)

	resp := handlertest.Get(t, app, dashboard.Path, handlertest.SignIn(t, handlertest.Admin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	r := views.Last(t)
	assert.Equal(t, dashboard.TemplateName, r.Name)
	assert.Equal(t, handler.BaseLayout, r.Layout)
	assert.Equal(t, listview.UserStats{Total: 4, Active: 1, Banned: 2, Unverified: 2}, r.Data["Stats"])
	assert.Equal(t, dashboard.QuickLinks, r.Data["QuickLinks"])

	current, ok := r.Data["CurrentUser"].(authapi.User)
	require.True(t, ok)
	assert.Equal(t, handlertest.Admin.ID, current.ID)

	entries, ok := r.Data["Audit"].([]models.AuditEntry)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "user.ban", entries[0].Action)

	nav, ok := r.Data["Navigation"].(*navigation.Context)
	require.True(t, ok)
	assert.True(t, nav.IsSectionActive(navigation.SectionDashboard))
}

func TestGetError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "fallback", err: errors.New("connection refused"), want: dashboard.ErrMsgLoadStats},
		{name: "api message", err: &authapi.Error{Status: 403, Message: "Forbidden"}, want: "Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := handlertest.Config()
			api := authapitest.New()
			api.Errors["ListUsers"] = tt.err

			app, views := handlertest.App(cfg)

			svc := &dashboard.Service{}
			svc.Init(app, cfg, handlertest.DB(t), api)

			resp := handlertest.Get(t, app, dashboard.Path+"?x=1", handlertest.SignIn(t, handlertest.Admin))
			assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

			r := views.Last(t)
			assert.Equal(t, handler.TemplateError, r.Name)
			assert.Equal(t, tt.want, r.Data["Error"])
			assert.Equal(t, dashboard.Path+"?x=1", r.Data["RetryURL"])
		})
	}
}

func TestRequiresSession(t *testing.T) {
	cfg := handlertest.Config()
	api := authapitest.New()
	app, _ := handlertest.App(cfg)

	svc := &dashboard.Service{}
	svc.Init(app, cfg, handlertest.DB(t), api)

	resp := handlertest.Get(t, app, dashboard.Path, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get("Location"))
	assert.False(t, api.Called("ListUsers"))
}
