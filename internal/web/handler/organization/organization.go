// Package organization provides the organization pages of the dashboard.
//
// The pages need the organization plugin on the auth server. When the list
// endpoint answers 404 the list page explains that instead of failing.
package organization

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
	// Path is the base path for organization management.
	Path = handler.DashboardPath + "/organizations"

	// CheckSlugPath answers slug availability as JSON.
	CheckSlugPath = Path + "/check-slug"

	// TemplateList is the template for listing organizations.
	TemplateList = "organizations/list"
	// TemplateNew is the template for creating an organization.
	TemplateNew = "organizations/new"
	// TemplateDetail is the template of a single organization.
	TemplateDetail = "organizations/detail"
	// TemplateEdit is the template for editing an organization.
	TemplateEdit = "organizations/edit"

	// ParamNotice carries the result of the last action after a redirect.
	ParamNotice = "notice"
)

// Columns are the sortable headers of the list.
var Columns = []handler.Column{ //nolint:gochecknoglobals
	{Field: listview.SortName, Title: "Name"},
	{Field: listview.SortSlug, Title: "Slug"},
	{Field: listview.SortCreatedAt, Title: "Created"},
}

// MemberRoles are the roles a member can be given.
var MemberRoles = []string{authapi.MemberRoleOwner, authapi.MemberRoleAdmin, authapi.MemberRoleMember} //nolint:gochecknoglobals

// InviteRoles are the roles an invitation can carry.
var InviteRoles = []string{authapi.MemberRoleMember, authapi.MemberRoleAdmin} //nolint:gochecknoglobals

var notices = map[string]string{ //nolint:gochecknoglobals
	"created":  "Organization created",
	"updated":  "Organization updated",
	"deleted":  "Organization deleted",
	"role":     "Member role updated",
	"removed":  "Member removed",
	"invited":  "Invitation sent",
	"canceled": "Invitation canceled",
}

// Row is one line of the organizations table.
type Row struct {
	Organization authapi.Organization
	Members      int
}

// Service provides the organization pages.
type Service struct {
	handler.Service
	cfg     *config.Config
	api     authapi.API
	audit   handler.Auditor
	members *memberCounter
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
	s.members = newMemberCounter(api)

	app.Get(Path, s.List)
	app.Get(Path+"/new", s.New)
	app.Get(CheckSlugPath, s.CheckSlug)
	app.Post(Path, s.Create)
	app.Get(Path+"/:id", s.Detail)
	app.Get(Path+"/:id/edit", s.Edit)
	app.Post(Path+"/:id/edit", s.Update)
	app.Post(Path+"/:id/delete", s.Delete)
	app.Post(Path+"/:id/members/:memberID/role", s.UpdateMemberRole)
	app.Post(Path+"/:id/members/:memberID/remove", s.RemoveMember)
	app.Post(Path+"/:id/invitations", s.Invite)
	app.Post(Path+"/:id/invitations/:invitationID/cancel", s.CancelInvitation)
}

// DetailPath returns the detail page of an organization.
func DetailPath(orgID string) string {
	return Path + "/" + url.PathEscape(orgID)
}

func withNotice(path, notice string) string {
	return path + "?" + ParamNotice + "=" + url.QueryEscape(notice)
}

// List shows the organizations with search, sort and pagination held in the
// query string, and the member count of every visible row.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.ForSection("Organizations", navigation.SectionOrganizations, "list").Current("Organizations")
	ctx := handler.APIContext(c)

	state := listview.Organizations.ParseState(func(key string) string { return c.Query(key) })

	orgs, err := s.api.ListOrganizations(ctx)
	if err != nil {
		if authapi.StatusOf(err) == fiber.StatusNotFound {
			log.Warn().Err(err).Msg("organization plugin is not enabled on the auth server")

			return c.Render(TemplateList, handler.View(c, nav, fiber.Map{
				"PluginDisabled": true,
			}), handler.BaseLayout)
		}

		log.Error().Err(err).Msg("failed to list organizations")

		return handler.RenderError(c, nav, authapi.Message(err, ErrMsgLoadOrganizations))
	}

	state = state.Reconcile(listview.OrganizationFingerprint(orgs))
	page := listview.Organizations.Apply(orgs, state)

	counts := s.members.Counts(ctx, page.Items)

	rows := make([]Row, len(page.Items))
	for i, o := range page.Items {
		rows[i] = Row{Organization: o, Members: counts[i]}
	}

	return c.Render(TemplateList, handler.View(c, nav, fiber.Map{
		"Rows":   rows,
		"State":  state,
		"Sorts":  handler.SortLinks(Path, state, Columns),
		"Pager":  handler.NewPager(Path, state, page),
		"Empty":  page.Empty(),
		"Notice": notices[c.Query(ParamNotice)],
	}), handler.BaseLayout)
}

// CheckSlug answers {"available": bool} for the slug query parameter.
func (s *Service) CheckSlug(c *fiber.Ctx) error {
	slug := c.Query("slug")
	if len(slug) < 2 {
		return c.JSON(fiber.Map{"available": false})
	}

	available, err := s.api.CheckSlug(handler.APIContext(c), slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("failed to check slug")

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"available": false,
			"error":     authapi.Message(err, ErrMsgCheckSlug),
		})
	}

	return c.JSON(fiber.Map{"available": available})
}

// slugError checks that slug is free. It returns the message to show, or ""
// when the slug can be used.
func (s *Service) slugError(c *fiber.Ctx, slug string) string {
	available, err := s.api.CheckSlug(handler.APIContext(c), slug)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("failed to check slug")

		return authapi.Message(err, ErrMsgCheckSlug)
	}

	if !available {
		return ErrMsgSlugTaken
	}

	return ""
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderNew(c, Form{}, "")
}

func (s *Service) renderNew(c *fiber.Ctx, form Form, errMsg string) error {
	nav := navigation.ForSection("New Organization", navigation.SectionOrganizations, "new").Current("New Organization")

	return c.Render(TemplateNew, handler.View(c, nav, fiber.Map{
		"Form":  form,
		"Error": errMsg,
	}), handler.BaseLayout)
}

// Create validates the form, checks the slug and creates the organization.
func (s *Service) Create(c *fiber.Ctx) error {
	var form Form
	if err := c.BodyParser(&form); err != nil {
		return s.renderNew(c, form, ErrMsgInvalidForm)
	}

	form.normalize()

	if msg := handler.Validator.FirstMessage(form, formRules, ErrMsgCreate); msg != "" {
		return s.renderNew(c, form, msg)
	}

	if msg := s.slugError(c, form.Slug); msg != "" {
		return s.renderNew(c, form, msg)
	}

	org, err := s.api.CreateOrganization(handler.APIContext(c), authapi.OrganizationInput{
		Name: form.Name,
		Slug: form.Slug,
		Logo: form.Logo,
	})

	entry := models.AuditEntry{
		Action:      "organization.create",
		TargetType:  models.TargetOrganization,
		TargetLabel: form.Name,
		Outcome:     handler.Outcome(err),
	}

	if err != nil {
		log.Error().Err(err).Str("slug", form.Slug).Msg("failed to create organization")

		entry.Message = err.Error()
		s.audit.Record(c, entry)

		return s.renderNew(c, form, authapi.Message(err, ErrMsgCreate))
	}

	entry.TargetID = org.ID
	s.audit.Record(c, entry)

	return c.Redirect(withNotice(DetailPath(org.ID), "created"))
}

// load fetches one organization. On failure it renders the error state and
// returns a nil organization.
func (s *Service) load(c *fiber.Ctx, nav *navigation.Context, orgID string) (*authapi.FullOrganization, error) {
	org, err := s.api.GetFullOrganization(handler.APIContext(c), orgID)
	if err == nil {
		return org, nil
	}

	log.Error().Err(err).Str("organization", orgID).Msg("failed to load organization")

	retry := handler.RetryURL(c, DetailPath(orgID))

	if errors.Is(err, authapi.ErrOrganizationNotFound) || authapi.StatusOf(err) == fiber.StatusNotFound {
		return nil, handler.RenderErrorRetry(c, fiber.StatusNotFound, nav.Current(ErrMsgNotFound), ErrMsgNotFound, retry)
	}

	return nil, handler.RenderErrorRetry(c, fiber.StatusBadGateway, nav.Current("Organization"),
		authapi.Message(err, ErrMsgLoadOrganization), retry)
}

// Detail shows an organization with its members and invitations.
func (s *Service) Detail(c *fiber.Ctx) error {
	return s.renderDetail(c, c.Params("id"), notices[c.Query(ParamNotice)], "")
}

func (s *Service) renderDetail(c *fiber.Ctx, orgID, notice, errMsg string) error {
	nav := navigation.ForSection("Organization", navigation.SectionOrganizations, "detail")

	org, err := s.load(c, nav, orgID)
	if org == nil {
		return err
	}

	nav.PageTitle = org.Name
	nav.Current(org.Name)

	pending := make([]authapi.Invitation, 0, len(org.Invitations))
	for _, inv := range org.Invitations {
		if inv.IsPending() {
			pending = append(pending, inv)
		}
	}

	return c.Render(TemplateDetail, handler.View(c, nav, fiber.Map{
		"Organization": org,
		"Members":      org.Members,
		"Invitations":  org.Invitations,
		"Pending":      pending,
		"MemberRoles":  MemberRoles,
		"InviteRoles":  InviteRoles,
		"Audit":        s.audit.ForTarget(models.TargetOrganization, org.ID),
		"Notice":       notice,
		"Error":        errMsg,
	}), handler.BaseLayout)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	orgID := c.Params("id")
	nav := navigation.ForSection("Edit Organization", navigation.SectionOrganizations, "edit")

	org, err := s.load(c, nav, orgID)
	if org == nil {
		return err
	}

	return s.renderEdit(c, org.Organization, Form{Name: org.Name, Slug: org.Slug, Logo: org.Logo}, "")
}

func (s *Service) renderEdit(c *fiber.Ctx, org authapi.Organization, form Form, errMsg string) error {
	nav := navigation.ForSection("Edit Organization", navigation.SectionOrganizations, "edit").
		AddBreadcrumb(org.Name, DetailPath(org.ID), false).
		Current("Edit")

	return c.Render(TemplateEdit, handler.View(c, nav, fiber.Map{
		"Organization": org,
		"Form":         form,
		"Error":        errMsg,
	}), handler.BaseLayout)
}

// Update saves the edit form. The slug is only checked when it changed.
func (s *Service) Update(c *fiber.Ctx) error {
	orgID := c.Params("id")
	nav := navigation.ForSection("Edit Organization", navigation.SectionOrganizations, "edit")

	current, err := s.load(c, nav, orgID)
	if current == nil {
		return err
	}

	var form Form
	if err = c.BodyParser(&form); err != nil {
		return s.renderEdit(c, current.Organization, form, ErrMsgInvalidForm)
	}

	form.normalize()

	if msg := handler.Validator.FirstMessage(form, formRules, ErrMsgUpdate); msg != "" {
		return s.renderEdit(c, current.Organization, form, msg)
	}

	if form.Slug != current.Slug {
		if msg := s.slugError(c, form.Slug); msg != "" {
			return s.renderEdit(c, current.Organization, form, msg)
		}
	}

	_, err = s.api.UpdateOrganization(handler.APIContext(c), orgID, authapi.OrganizationInput{
		Name: form.Name,
		Slug: form.Slug,
		Logo: form.Logo,
	})
	s.record(c, "organization.update", current.Organization, err)

	if err != nil {
		log.Error().Err(err).Str("organization", orgID).Msg("failed to update organization")

		return s.renderEdit(c, current.Organization, form, authapi.Message(err, ErrMsgUpdate))
	}

	return c.Redirect(withNotice(DetailPath(orgID), "updated"))
}

// record writes the audit entry of an action on org.
func (s *Service) record(c *fiber.Ctx, action string, org authapi.Organization, err error) {
	entry := models.AuditEntry{
		Action:      action,
		TargetType:  models.TargetOrganization,
		TargetID:    org.ID,
		TargetLabel: org.Name,
		Outcome:     handler.Outcome(err),
	}

	if err != nil {
		entry.Message = err.Error()
	}

	s.audit.Record(c, entry)
}
