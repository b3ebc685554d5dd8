package handler

import (
	"github.com/better-auth-admin/better-auth-admin/internal/listview"
)

// SortLink is a sortable column header.
type SortLink struct {
	Title  string
	URL    string
	Active bool
	Order  listview.SortOrder
}

// StatusLink is one entry of a status filter bar.
type StatusLink struct {
	Title  string
	Status string
	URL    string
	Active bool
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number int
	URL    string
	Active bool
}

// Pager holds the pagination state of a list page. It is hidden by the
// templates when TotalPages is zero.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
	From       int
	To         int
	PrevURL    string
	NextURL    string
	Pages      []PageLink
}

// Column names a sort field and its header title.
type Column struct {
	Field string
	Title string
}

// SortLinks returns the header links of columns. Clicking the active column
// flips the order, any other column sorts ascending.
func SortLinks(path string, state listview.State, columns []Column) map[string]SortLink {
	links := make(map[string]SortLink, len(columns))

	for _, col := range columns {
		link := SortLink{
			Title: col.Title,
			URL:   state.ToggleSort(col.Field).URL(path),
		}

		if state.SortField == col.Field {
			link.Active = true
			link.Order = state.SortOrder
		}

		links[col.Field] = link
	}

	return links
}

// StatusLinks returns the filter bar for statuses. titles maps a status to
// its label, missing labels fall back to the status itself.
func StatusLinks(path string, state listview.State, statuses []string, titles map[string]string) []StatusLink {
	links := make([]StatusLink, 0, len(statuses))

	for _, status := range statuses {
		title := titles[status]
		if title == "" {
			title = status
		}

		links = append(links, StatusLink{
			Title:  title,
			Status: status,
			URL:    state.WithStatus(status).URL(path),
			Active: state.Status == status,
		})
	}

	return links
}

// NewPager builds the pagination links of page. Every link carries the
// source fingerprint of state.
func NewPager[T any](path string, state listview.State, page listview.Page[T]) Pager {
	p := Pager{
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
		From:       page.From,
		To:         page.To,
		Pages:      make([]PageLink, 0, page.TotalPages),
	}

	if page.HasPrev() {
		p.PrevURL = state.WithPage(page.Page - 1).URL(path)
	}

	if page.HasNext() {
		p.NextURL = state.WithPage(page.Page + 1).URL(path)
	}

	for n := 1; n <= page.TotalPages; n++ {
		p.Pages = append(p.Pages, PageLink{
			Number: n,
			URL:    state.WithPage(n).URL(path),
			Active: n == page.Page,
		})
	}

	return p
}
