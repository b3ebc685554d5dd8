package listview

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Query parameter names used to carry the view state.
const (
	ParamSearch = "q"
	ParamStatus = "status"
	ParamSort   = "sort"
	ParamOrder  = "order"
	ParamPage   = "page"
	ParamSource = "v"
)

// State is the view state of a list page. Transitions return a new State,
// every transition except WithPage resets the page to 1.
type State struct {
	Search    string
	Status    string
	SortField string
	SortOrder SortOrder
	Page      int

	// Source is the fingerprint of the source list the page number refers to.
	Source string
}

// WithSearch sets the search query.
func (s State) WithSearch(query string) State {
	s.Search = query
	s.Page = 1

	return s
}

// WithStatus sets the status filter.
func (s State) WithStatus(status string) State {
	s.Status = status
	s.Page = 1

	return s
}

// WithSort sets field and order.
func (s State) WithSort(field string, order SortOrder) State {
	s.SortField = field
	s.SortOrder = order
	s.Page = 1

	return s
}

// ToggleSort flips the order when field is already the sort field and sorts
// ascending by field otherwise.
func (s State) ToggleSort(field string) State {
	if s.SortField == field {
		return s.WithSort(field, s.SortOrder.Flip())
	}

	return s.WithSort(field, Asc)
}

// WithPage changes the page only.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}

	s.Page = page

	return s
}

// Reconcile binds the state to the fingerprint of the freshly fetched source
// list. A page number computed against a different list is reset to 1.
func (s State) Reconcile(fingerprint string) State {
	if s.Source != "" && s.Source != fingerprint {
		s.Page = 1
	}

	s.Source = fingerprint

	return s
}

// Values encodes the state as query parameters. Defaults are left out.
func (s State) Values() url.Values {
	v := url.Values{}

	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}

	if s.Status != "" && s.Status != StatusAll {
		v.Set(ParamStatus, s.Status)
	}

	if s.SortField != "" {
		v.Set(ParamSort, s.SortField)
	}

	if s.SortOrder != "" {
		v.Set(ParamOrder, string(s.SortOrder))
	}

	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}

	if s.Source != "" {
		v.Set(ParamSource, s.Source)
	}

	return v
}

// URL returns path with the encoded state appended.
func (s State) URL(path string) string {
	q := s.Values().Encode()
	if q == "" {
		return path
	}

	return path + "?" + q
}

// ParseState reads the view state through get, falling back to the pipeline
// defaults for missing or unknown values.
func (p Pipeline[T]) ParseState(get func(key string) string) State {
	s := p.DefaultState()

	s.Search = get(ParamSearch)
	s.Source = get(ParamSource)

	if status := get(ParamStatus); status != "" && p.HasStatus(status) {
		s.Status = status
	}

	if field := get(ParamSort); p.HasSort(field) {
		s.SortField = field
	}

	if order, ok := ParseSortOrder(get(ParamOrder)); ok {
		s.SortOrder = order
	}

	if page, err := strconv.Atoi(get(ParamPage)); err == nil && page > 1 {
		s.Page = page
	}

	return s
}

// Fingerprint hashes the keys of items, ignoring their order.
func Fingerprint[T any](items []T, key func(T) string) string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = key(item)
	}

	sort.Strings(keys)

	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
	}

	return strconv.FormatUint(d.Sum64(), 36)
}
