package listview

import (
	"strings"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
)

// SortSlug sorts organizations by slug.
const SortSlug = "slug"

// Organizations is the list pipeline of the organizations page. It has no
// status filter.
var Organizations = Pipeline[authapi.Organization]{
	Text: func(o authapi.Organization) []string {
		return []string{o.Name, o.Slug}
	},
	Sorts: map[string]Compare[authapi.Organization]{
		SortName:      func(a, b authapi.Organization) int { return strings.Compare(a.Name, b.Name) },
		SortSlug:      func(a, b authapi.Organization) int { return strings.Compare(a.Slug, b.Slug) },
		SortCreatedAt: func(a, b authapi.Organization) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	DefaultSort:  SortCreatedAt,
	DefaultOrder: Desc,
	PageSize:     PageSize,
}

// OrganizationFingerprint identifies a fetched organization list.
func OrganizationFingerprint(orgs []authapi.Organization) string {
	return Fingerprint(orgs, func(o authapi.Organization) string {
		return o.ID + "|" + o.Name + "|" + o.Slug
	})
}
