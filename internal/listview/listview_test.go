package listview_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/listview"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func user(id, email, name string, banned, verified bool, age int) authapi.User {
	return authapi.User{
		ID:            id,
		Email:         email,
		Name:          name,
		Banned:        banned,
		EmailVerified: verified,
		CreatedAt:     epoch.Add(time.Duration(age) * time.Hour),
	}
}

func manyUsers(n int) []authapi.User {
	out := make([]authapi.User, n)
	for i := range out {
		out[i] = user(fmt.Sprintf("u%02d", i), fmt.Sprintf("user%02d@example.com", i), fmt.Sprintf("User %02d", i), i%3 == 0, i%2 == 0, i)
	}

	return out
}

func ids(users []authapi.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}

	return out
}

func TestSearch(t *testing.T) {
	source := []authapi.User{
		user("1", "a@x.com", "", false, true, 0),
		user("2", "b@y.com", "", false, true, 1),
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "domain match", query: "x.com", want: []string{"1"}},
		{name: "case insensitive", query: "B@Y", want: []string{"2"}},
		{name: "empty keeps all", query: "", want: []string{"1", "2"}},
		{name: "no match", query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(listview.Users.Search(source, tt.query)))
		})
	}
}

func TestSearchMatchesAnyTextField(t *testing.T) {
	source := []authapi.User{
		user("1", "one@example.com", "Alice", false, true, 0),
		user("2", "two@example.com", "Bob", false, true, 0),
	}

	assert.Equal(t, []string{"1"}, ids(listview.Users.Search(source, "alice")))

	orgs := []authapi.Organization{
		{ID: "o1", Name: "Acme", Slug: "acme-inc"},
		{ID: "o2", Name: "Globex", Slug: "globex"},
	}

	got := listview.Organizations.Search(orgs, "INC")
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
}

func TestSearchIsIdempotent(t *testing.T) {
	source := manyUsers(25)

	for _, q := range []string{"", "user1", "EXAMPLE", "User 0", "nobody"} {
		once := listview.Users.Search(source, q)
		twice := listview.Users.Search(once, q)
		assert.Equal(t, ids(once), ids(twice), "query %q", q)
	}
}

func TestFilterStatus(t *testing.T) {
	source := []authapi.User{
		user("active", "a@x", "", false, true, 0),
		user("banned", "b@x", "", true, true, 0),
		user("unverified", "c@x", "", false, false, 0),
		user("banned-unverified", "d@x", "", true, false, 0),
	}

	tests := []struct {
		status string
		want   []string
	}{
		{status: listview.StatusAll, want: []string{"active", "banned", "unverified", "banned-unverified"}},
		{status: "", want: []string{"active", "banned", "unverified", "banned-unverified"}},
		{status: "bogus", want: []string{"active", "banned", "unverified", "banned-unverified"}},
		{status: listview.StatusActive, want: []string{"active"}},
		{status: listview.StatusBanned, want: []string{"banned", "banned-unverified"}},
		{status: listview.StatusUnverified, want: []string{"unverified", "banned-unverified"}},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(listview.Users.FilterStatus(source, tt.status)))
		})
	}
}

func TestBannedFilterIgnoresVerification(t *testing.T) {
	for _, u := range listview.Users.FilterStatus(manyUsers(40), listview.StatusBanned) {
		assert.True(t, u.Banned, u.ID)
	}
}

func TestUserBadgeDiffersFromFilter(t *testing.T) {
	u := user("x", "x@x", "", true, false, 0)

	assert.Equal(t, listview.StatusBanned, listview.UserBadge(u))
	assert.Len(t, listview.Users.FilterStatus([]authapi.User{u}, listview.StatusUnverified), 1)

	assert.Equal(t, listview.StatusUnverified, listview.UserBadge(user("y", "y@y", "", false, false, 0)))
	assert.Equal(t, listview.StatusActive, listview.UserBadge(user("z", "z@z", "", false, true, 0)))
}

func TestSortCreatedAtDesc(t *testing.T) {
	source := manyUsers(30)
	state := listview.Users.DefaultState()

	page := listview.Users.Apply(source, state)
	require.Len(t, page.Items, listview.PageSize)

	for i := 1; i < len(page.Derived); i++ {
		assert.False(t, page.Derived[i-1].CreatedAt.Before(page.Derived[i].CreatedAt))
	}
}

func TestSortByField(t *testing.T) {
	source := []authapi.User{
		user("1", "c@x", "Bravo", false, true, 2),
		user("2", "a@x", "Charlie", false, true, 0),
		user("3", "b@x", "Alpha", false, true, 1),
	}

	tests := []struct {
		field string
		order listview.SortOrder
		want  []string
	}{
		{field: listview.SortEmail, order: listview.Asc, want: []string{"2", "3", "1"}},
		{field: listview.SortEmail, order: listview.Desc, want: []string{"1", "3", "2"}},
		{field: listview.SortName, order: listview.Asc, want: []string{"3", "1", "2"}},
		{field: listview.SortCreatedAt, order: listview.Asc, want: []string{"2", "3", "1"}},
		{field: "unknown", order: listview.Asc, want: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.field+" "+string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(listview.Users.Sort(source, tt.field, tt.order)))
		})
	}

	// input untouched
	assert.Equal(t, []string{"1", "2", "3"}, ids(source))
}

func TestPaginationCoverage(t *testing.T) {
	source := manyUsers(37)
	state := listview.Users.DefaultState().WithSort(listview.SortEmail, listview.Asc)

	first := listview.Users.Apply(source, state)
	require.Equal(t, 4, first.TotalPages)

	var all []authapi.User
	for p := 1; p <= first.TotalPages; p++ {
		all = append(all, listview.Users.Apply(source, state.WithPage(p)).Items...)
	}

	assert.Equal(t, ids(first.Derived), ids(all))
}

func TestPaginateBounds(t *testing.T) {
	source := manyUsers(12)

	tests := []struct {
		name     string
		page     int
		wantLen  int
		wantFrom int
		wantTo   int
		wantPage int
	}{
		{name: "first", page: 1, wantLen: 10, wantFrom: 1, wantTo: 10, wantPage: 1},
		{name: "last partial", page: 2, wantLen: 2, wantFrom: 11, wantTo: 12, wantPage: 2},
		{name: "below one", page: 0, wantLen: 10, wantFrom: 1, wantTo: 10, wantPage: 1},
		{name: "past end", page: 5, wantLen: 0, wantPage: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listview.Users.Paginate(source, tt.page)
			assert.Len(t, got.Items, tt.wantLen)
			assert.Equal(t, tt.wantFrom, got.From)
			assert.Equal(t, tt.wantTo, got.To)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, 2, got.TotalPages)
		})
	}
}

func TestEmptyState(t *testing.T) {
	for _, q := range []string{"", "anything"} {
		page := listview.Users.Apply(nil, listview.Users.DefaultState().WithSearch(q))

		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.Total)
		assert.Equal(t, 0, page.TotalPages)
		assert.True(t, page.Empty())
		assert.False(t, page.HasNext())
		assert.False(t, page.HasPrev())
	}
}

func TestCountUsers(t *testing.T) {
	source := []authapi.User{
		user("1", "a", "", false, true, 0),
		user("2", "b", "", true, true, 0),
		user("3", "c", "", false, false, 0),
		user("4", "d", "", true, false, 0),
	}

	assert.Equal(t, listview.UserStats{Total: 4, Active: 1, Banned: 2, Unverified: 2}, listview.CountUsers(source, 0))
	assert.Equal(t, 1500, listview.CountUsers(source, 1500).Total)
}
