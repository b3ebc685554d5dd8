package organization

import (
	"regexp"
	"strings"

	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
)

// Messages shown when the form or the auth server rejects an action.
const (
	ErrMsgLoadOrganizations = "Failed to load organizations"
	ErrMsgLoadOrganization  = "Failed to load organization"
	ErrMsgNotFound          = "Organization not found"
	ErrMsgCreate            = "Failed to create organization"
	ErrMsgUpdate            = "Failed to update organization"
	ErrMsgDelete            = "Failed to delete organization"
	ErrMsgUpdateMemberRole  = "Failed to update member role"
	ErrMsgRemoveMember      = "Failed to remove member"
	ErrMsgInvite            = "Failed to send invitation"
	ErrMsgCancelInvitation  = "Failed to cancel invitation"
	ErrMsgCheckSlug         = "Failed to check slug"
	ErrMsgSlugTaken         = "This slug is already taken"
	ErrMsgInvalidForm       = "Invalid form data"
	ErrMsgInvalidRole       = "Invalid role"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a slug from name: lowercase, runs of anything but a-z and
// 0-9 become a single dash, no leading or trailing dash.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Form is the create and edit form of an organization.
type Form struct {
	Name string `form:"name" validate:"required"`
	Slug string `form:"slug" validate:"required,min=2"`
	Logo string `form:"logo"`
}

var formRules = []handler.Rule{ //nolint:gochecknoglobals
	{Field: "Name", Tag: "required", Message: "Name and slug are required"},
	{Field: "Slug", Tag: "required", Message: "Name and slug are required"},
	{Field: "Slug", Tag: "min", Message: "Slug must be at least 2 characters"},
}

func (f *Form) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Slug = strings.TrimSpace(f.Slug)
	f.Logo = strings.TrimSpace(f.Logo)

	if f.Slug == "" {
		f.Slug = Slugify(f.Name)
	}
}

// InviteForm invites a member by email.
type InviteForm struct {
	Email string `form:"email" validate:"required"`
	Role  string `form:"role"  validate:"oneof=member admin"`
}

var inviteRules = []handler.Rule{ //nolint:gochecknoglobals
	{Field: "Email", Tag: "required", Message: "Email is required"},
	{Field: "Role", Tag: "oneof", Message: ErrMsgInvalidRole},
}

// RoleForm changes the role of a member.
type RoleForm struct {
	Role string `form:"role" validate:"oneof=owner admin member"`
}

var roleRules = []handler.Rule{ //nolint:gochecknoglobals
	{Field: "Role", Tag: "oneof", Message: ErrMsgInvalidRole},
}

func (f *InviteForm) normalize() {
	f.Email = strings.TrimSpace(f.Email)

	if f.Role == "" {
		f.Role = "member"
	}
}
