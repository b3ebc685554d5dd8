// Package listview implements the search, filter, sort and paginate pipeline
// used by the dashboard list pages.
//
// Every derived page is recomputed from scratch from the fetched source list
// and the view State. Nothing is mutated incrementally.
package listview

import (
	"sort"
	"strings"
)

// PageSize is the fixed number of rows per page.
const PageSize = 10

// StatusAll is the no-op status filter.
const StatusAll = "all"

// SortOrder is either ascending or descending.
type SortOrder string

const (
	// Asc sorts ascending.
	Asc SortOrder = "asc"
	// Desc sorts descending.
	Desc SortOrder = "desc"
)

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == Asc {
		return Desc
	}

	return Asc
}

// ParseSortOrder parses asc or desc.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(strings.ToLower(s)) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	default:
		return "", false
	}
}

// Compare returns a negative number when a sorts before b, a positive number
// when after and zero when equal.
type Compare[T any] func(a, b T) int

// Pipeline is the list engine for one entity type.
type Pipeline[T any] struct {
	// Text returns the fields matched by the search query.
	Text func(T) []string

	// Status holds the status predicates by key. May be nil.
	Status map[string]func(T) bool

	// Sorts holds the comparators by sort field.
	Sorts map[string]Compare[T]

	DefaultSort  string
	DefaultOrder SortOrder

	// PageSize defaults to PageSize when zero.
	PageSize int
}

// Page is one visible page of a derived list.
type Page[T any] struct {
	Items []T

	// Derived is the full searched, filtered and sorted list.
	Derived []T

	Total      int
	Page       int
	PageSize   int
	TotalPages int

	// From and To are the 1-based bounds of Items within Derived, both zero
	// when the page is empty.
	From int
	To   int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Empty reports whether the derived list has no rows.
func (p Page[T]) Empty() bool {
	return p.Total == 0
}

func (p Pipeline[T]) size() int {
	if p.PageSize > 0 {
		return p.PageSize
	}

	return PageSize
}

// HasSort reports whether field is a known sort field.
func (p Pipeline[T]) HasSort(field string) bool {
	_, ok := p.Sorts[field]
	return ok
}

// HasStatus reports whether status is a known status filter.
func (p Pipeline[T]) HasStatus(status string) bool {
	if status == StatusAll {
		return true
	}

	_, ok := p.Status[status]

	return ok
}

// Search keeps the items where at least one text field contains query,
// ignoring case. An empty query keeps every item.
func (p Pipeline[T]) Search(items []T, query string) []T {
	if query == "" || p.Text == nil {
		return clone(items)
	}

	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))

	for _, item := range items {
		for _, field := range p.Text(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, item)
				break
			}
		}
	}

	return out
}

// FilterStatus keeps the items matching the status predicate. StatusAll, an
// empty status and unknown keys keep everything.
func (p Pipeline[T]) FilterStatus(items []T, status string) []T {
	match, ok := p.Status[status]
	if status == "" || status == StatusAll || !ok {
		return clone(items)
	}

	out := make([]T, 0, len(items))

	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}

	return out
}

// Sort returns a sorted copy of items. Unknown fields leave the order as is.
// Ties have no guaranteed order.
func (p Pipeline[T]) Sort(items []T, field string, order SortOrder) []T {
	out := clone(items)

	cmp, ok := p.Sorts[field]
	if !ok {
		return out
	}

	sort.Slice(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order == Desc {
			c = -c
		}

		return c < 0
	})

	return out
}

// Paginate slices items to [(page-1)*size, page*size). A page below 1 is
// treated as 1, a page past the end yields no items.
func (p Pipeline[T]) Paginate(items []T, page int) Page[T] {
	size := p.size()

	if page < 1 {
		page = 1
	}

	total := len(items)
	result := Page[T]{
		Derived:    items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}

	start := (page - 1) * size
	if start >= total {
		result.Items = []T{}
		return result
	}

	end := min(start+size, total)

	result.Items = items[start:end]
	result.From = start + 1
	result.To = end

	return result
}

// Apply runs search, status filter, sort and pagination for the given state.
func (p Pipeline[T]) Apply(items []T, s State) Page[T] {
	derived := p.Search(items, s.Search)
	derived = p.FilterStatus(derived, s.Status)
	derived = p.Sort(derived, s.SortField, s.SortOrder)

	return p.Paginate(derived, s.Page)
}

// DefaultState returns the initial view state of the pipeline.
func (p Pipeline[T]) DefaultState() State {
	return State{
		Status:    StatusAll,
		SortField: p.DefaultSort,
		SortOrder: p.DefaultOrder,
		Page:      1,
	}
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)

	return out
}
