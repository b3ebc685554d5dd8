// Package user provides the user management pages of the dashboard.
package user

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	"github.com/better-auth-admin/better-auth-admin/internal/listview"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
	"github.com/better-auth-admin/better-auth-admin/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.DashboardPath + "/users"

	// TemplateList is the template for listing users.
	TemplateList = "users/list"
	// TemplateNew is the template for creating a user.
	TemplateNew = "users/new"
	// TemplateDetail is the template of a single user.
	TemplateDetail = "users/detail"

	// ParamNotice carries the result of the last action after a redirect.
	ParamNotice = "notice"
)

// Columns are the sortable headers of the list.
var Columns = []handler.Column{ //nolint:gochecknoglobals
	{Field: listview.SortName, Title: "Name"},
	{Field: listview.SortEmail, Title: "Email"},
	{Field: listview.SortCreatedAt, Title: "Created"},
}

var statusTitles = map[string]string{ //nolint:gochecknoglobals
	listview.StatusAll:        "All",
	listview.StatusActive:     "Active",
	listview.StatusBanned:     "Banned",
	listview.StatusUnverified: "Unverified",
}

// notices are the confirmations shown after a redirect, keyed by ParamNotice.
var notices = map[string]string{ //nolint:gochecknoglobals
	"created":     "User created",
	"updated":     "User updated",
	"banned":      "User banned",
	"unbanned":    "User unbanned",
	"deleted":     "User deleted",
	"password":    "Password updated",
	"revoked":     "Session revoked",
	"revoked-all": "All sessions revoked",
}

// Row is one line of the users table.
type Row struct {
	User  authapi.User
	Badge string
}

// Service provides the user pages.
type Service struct {
	handler.Service
	cfg   *config.Config
	api   authapi.API
	audit handler.Auditor
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, api authapi.API) {
	if app == nil || cfg == nil || db == nil || api == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.api = api
	s.audit = handler.NewAuditor(cfg, db)

	app.Get(Path, s.List)
	app.Get(Path+"/new", s.New)
	app.Post(Path, s.Create)
	app.Get(Path+"/:id", s.Detail)
	app.Post(Path+"/:id", s.Update)
	app.Post(Path+"/:id/ban", s.Ban)
	app.Post(Path+"/:id/unban", s.Unban)
	app.Post(Path+"/:id/delete", s.Delete)
	app.Post(Path+"/:id/password", s.SetPassword)
	app.Post(Path+"/:id/impersonate", s.Impersonate)
	app.Post(Path+"/:id/sessions/revoke", s.RevokeSession)
	app.Post(Path+"/:id/sessions/revoke-all", s.RevokeAllSessions)
}

// DetailPath returns the detail page of a user.
func DetailPath(userID string) string {
	return Path + "/" + url.PathEscape(userID)
}

func withNotice(path, notice string) string {
	return path + "?" + ParamNotice + "=" + url.QueryEscape(notice)
}

// List shows the users with search, status filter, sort and pagination, all
// held in the query string.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.ForSection("Users", navigation.SectionUsers, "list").Current("Users")

	state := listview.Users.ParseState(func(key string) string { return c.Query(key) })

	list, err := s.api.ListUsers(handler.APIContext(c), authapi.ListUsersQuery{Limit: s.cfg.Auth.ListLimit})
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return handler.RenderError(c, nav, authapi.Message(err, ErrMsgLoadUsers))
	}

	state = state.Reconcile(listview.UserFingerprint(list.Users))
	page := listview.Users.Apply(list.Users, state)

	rows := make([]Row, 0, len(page.Items))
	for _, u := range page.Items {
		rows = append(rows, Row{User: u, Badge: listview.UserBadge(u)})
	}

	return c.Render(TemplateList, handler.View(c, nav, fiber.Map{
		"Rows":     rows,
		"State":    state,
		"Sorts":    handler.SortLinks(Path, state, Columns),
		"Statuses": handler.StatusLinks(Path, state, listview.UserStatuses, statusTitles),
		"Pager":    handler.NewPager(Path, state, page),
		"Empty":    page.Empty(),
		"Notice":   notices[c.Query(ParamNotice)],
	}), handler.BaseLayout)
}

func newNav() *navigation.Context {
	return navigation.ForSection("New User", navigation.SectionUsers, "new").Current("New User")
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderNew(c, CreateForm{Role: authapi.RoleUser}, "")
}

func (s *Service) renderNew(c *fiber.Ctx, form CreateForm, errMsg string) error {
	form.Password, form.ConfirmPassword = "", ""

	return c.Render(TemplateNew, handler.View(c, newNav(), fiber.Map{
		"Form":  form,
		"Roles": []string{authapi.RoleUser, authapi.RoleAdmin},
		"Error": errMsg,
	}), handler.BaseLayout)
}

// Create validates the form and creates the user upstream.
func (s *Service) Create(c *fiber.Ctx) error {
	var form CreateForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderNew(c, form, ErrMsgInvalidForm)
	}

	form.normalize()

	if msg := handler.Validator.FirstMessage(form, createRules, ErrMsgCreate); msg != "" {
		return s.renderNew(c, form, msg)
	}

	created, err := s.api.CreateUser(handler.APIContext(c), authapi.CreateUserInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
		Role:     form.Role,
	})

	entry := models.AuditEntry{
		Action:      "user.create",
		TargetType:  models.TargetUser,
		TargetLabel: form.Email,
		Outcome:     handler.Outcome(err),
	}

	if err != nil {
		log.Error().Err(err).Str("email", form.Email).Msg("failed to create user")

		entry.Message = err.Error()
		s.audit.Record(c, entry)

		return s.renderNew(c, form, authapi.Message(err, ErrMsgCreate))
	}

	entry.TargetID = created.ID
	s.audit.Record(c, entry)

	return c.Redirect(withNotice(DetailPath(created.ID), "created"))
}

// Detail shows one user with the edit form and the sessions list.
func (s *Service) Detail(c *fiber.Ctx) error {
	return s.renderDetail(c, c.Params("id"), notices[c.Query(ParamNotice)], "")
}

// renderDetail loads the user and renders the detail page. errMsg is the
// failure of the action that led here, if any.
func (s *Service) renderDetail(c *fiber.Ctx, userID, notice, errMsg string) error {
	nav := navigation.ForSection("User", navigation.SectionUsers, "detail")
	ctx := handler.APIContext(c)

	u, err := s.api.GetUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to load user")

		return renderLoadError(c, userID, err)
	}

	nav.PageTitle = displayName(*u)
	nav.Current(nav.PageTitle)

	var sessionsErr string

	sessions, err := s.api.ListUserSessions(ctx, u.ID)
	if err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("failed to load user sessions")

		sessionsErr = authapi.Message(err, ErrMsgLoadSessions)
	}

	return c.Render(TemplateDetail, handler.View(c, nav, fiber.Map{
		"User":          u,
		"Badge":         listview.UserBadge(*u),
		"IsAdmin":       u.Role == s.cfg.Auth.AdminRole,
		"IsSelf":        u.ID == handler.CurrentSession(c).User.ID,
		"Roles":         []string{authapi.RoleUser, authapi.RoleAdmin},
		"Sessions":      sessions,
		"SessionsError": sessionsErr,
		"Audit":         s.audit.ForTarget(models.TargetUser, u.ID),
		"Notice":        notice,
		"Error":         errMsg,
	}), handler.BaseLayout)
}

// renderLoadError renders the error state for a user that could not be
// loaded. Retry goes to the detail page when the request was a form post.
func renderLoadError(c *fiber.Ctx, userID string, err error) error {
	nav := navigation.ForSection("User", navigation.SectionUsers, "detail")
	retry := handler.RetryURL(c, DetailPath(userID))

	if errors.Is(err, authapi.ErrUserNotFound) || authapi.StatusOf(err) == fiber.StatusNotFound {
		return handler.RenderErrorRetry(c, fiber.StatusNotFound, nav.Current(ErrMsgUserNotFound), ErrMsgUserNotFound, retry)
	}

	return handler.RenderErrorRetry(c, fiber.StatusBadGateway, nav.Current("User"), authapi.Message(err, ErrMsgLoadUser), retry)
}

func displayName(u authapi.User) string {
	if u.Name != "" {
		return u.Name
	}

	return u.Email
}

// Update saves the profile fields and, when it changed, the role.
func (s *Service) Update(c *fiber.Ctx) error {
	userID := c.Params("id")

	var form UpdateForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderDetail(c, userID, "", ErrMsgInvalidForm)
	}

	form.normalize()

	if msg := handler.Validator.FirstMessage(form, updateRules, ErrMsgUpdate); msg != "" {
		return s.renderDetail(c, userID, "", msg)
	}

	ctx := handler.APIContext(c)

	current, err := s.api.GetUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to load user")

		return renderLoadError(c, userID, err)
	}

	_, err = s.api.UpdateUser(ctx, userID, authapi.UserUpdate{
		Name:          form.Name,
		Email:         form.Email,
		EmailVerified: form.EmailVerified,
	})
	s.record(c, "user.update", *current, err)

	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to update user")

		return s.renderDetail(c, userID, "", authapi.Message(err, ErrMsgUpdate))
	}

	if form.Role != "" && form.Role != current.Role {
		err = s.api.SetRole(ctx, userID, form.Role)
		s.record(c, "user.set_role", *current, err)

		if err != nil {
			log.Error().Err(err).Str("user", userID).Str("role", form.Role).Msg("failed to set role")

			return s.renderDetail(c, userID, "", authapi.Message(err, ErrMsgUpdateRole))
		}
	}

	return c.Redirect(withNotice(DetailPath(userID), "updated"))
}

// record writes the audit entry of an action on u.
func (s *Service) record(c *fiber.Ctx, action string, u authapi.User, err error) {
	entry := models.AuditEntry{
		Action:      action,
		TargetType:  models.TargetUser,
		TargetID:    u.ID,
		TargetLabel: u.Email,
		Outcome:     handler.Outcome(err),
	}

	if err != nil {
		entry.Message = err.Error()
	}

	s.audit.Record(c, entry)
}
