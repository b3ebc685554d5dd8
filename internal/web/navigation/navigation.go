// Package navigation builds the sidebar and breadcrumb state of a page.
package navigation

// Sections of the dashboard sidebar.
const (
	SectionDashboard     = "dashboard"
	SectionUsers         = "users"
	SectionOrganizations = "organizations"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one sidebar entry.
type MenuItem struct {
	Title   string
	URL     string
	Section string
	Active  bool
}

// menu is the sidebar in display order.
var menu = []MenuItem{ //nolint:gochecknoglobals
	{Title: "Dashboard", URL: "/dashboard", Section: SectionDashboard},
	{Title: "Users", URL: "/dashboard/users", Section: SectionUsers},
	{Title: "Organizations", URL: "/dashboard/organizations", Section: SectionOrganizations},
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// ForSection starts a context below the dashboard root: the dashboard
// crumb, then the section crumb unless section is the dashboard itself.
func ForSection(pageTitle, section, page string) *Context {
	c := NewContext(pageTitle, section, page)
	c.AddBreadcrumb("Dashboard", "/dashboard", section == SectionDashboard)

	for _, m := range menu {
		if m.Section == section && section != SectionDashboard {
			c.AddBreadcrumb(m.Title, m.URL, false)
		}
	}

	return c
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// Current marks the last breadcrumb as the current page, or appends title
// as the current page when it differs from the last crumb.
func (c *Context) Current(title string) *Context {
	if n := len(c.Breadcrumbs); n > 0 && c.Breadcrumbs[n-1].Title == title {
		c.Breadcrumbs[n-1].Active = true

		return c
	}

	return c.AddBreadcrumb(title, "", true)
}

// Menu returns the sidebar with the active section marked.
func (c *Context) Menu() []MenuItem {
	out := make([]MenuItem, len(menu))

	for i, m := range menu {
		m.Active = m.Section == c.ActiveSection
		out[i] = m
	}

	return out
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
