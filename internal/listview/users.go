package listview

import (
	"strings"
	"time"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
)

// User status filters.
const (
	StatusActive     = "active"
	StatusBanned     = "banned"
	StatusUnverified = "unverified"
)

// Sort fields.
const (
	SortEmail     = "email"
	SortName      = "name"
	SortCreatedAt = "createdAt"
)

// UserStatuses lists the status filters in display order.
var UserStatuses = []string{StatusAll, StatusActive, StatusBanned, StatusUnverified}

// Users is the list pipeline of the users page.
var Users = Pipeline[authapi.User]{
	Text: func(u authapi.User) []string {
		return []string{u.Email, u.Name}
	},
	Status: map[string]func(authapi.User) bool{
		StatusActive:     func(u authapi.User) bool { return !u.Banned && u.EmailVerified },
		StatusBanned:     func(u authapi.User) bool { return u.Banned },
		StatusUnverified: func(u authapi.User) bool { return !u.EmailVerified },
	},
	Sorts: map[string]Compare[authapi.User]{
		SortEmail:     func(a, b authapi.User) int { return strings.Compare(a.Email, b.Email) },
		SortName:      func(a, b authapi.User) int { return strings.Compare(a.Name, b.Name) },
		SortCreatedAt: func(a, b authapi.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	DefaultSort:  SortCreatedAt,
	DefaultOrder: Desc,
	PageSize:     PageSize,
}

// UserBadge returns the single display status of a user. The precedence is
// banned, then unverified, then active. This is not the filter logic: a banned
// unverified user matches both filters but shows one badge.
func UserBadge(u authapi.User) string {
	switch {
	case u.Banned:
		return StatusBanned
	case !u.EmailVerified:
		return StatusUnverified
	default:
		return StatusActive
	}
}

// UserFingerprint identifies a fetched user list.
func UserFingerprint(users []authapi.User) string {
	return Fingerprint(users, func(u authapi.User) string {
		return u.ID + "|" + u.UpdatedAt.UTC().Format(time.RFC3339Nano)
	})
}

// UserStats are the dashboard counters.
type UserStats struct {
	Total      int
	Active     int
	Banned     int
	Unverified int
}

// CountUsers counts users per status filter. total is the total reported by
// the API and is used when larger than the fetched list.
func CountUsers(users []authapi.User, total int) UserStats {
	stats := UserStats{Total: max(total, len(users))}

	for _, u := range users {
		if Users.Status[StatusActive](u) {
			stats.Active++
		}

		if Users.Status[StatusBanned](u) {
			stats.Banned++
		}

		if Users.Status[StatusUnverified](u) {
			stats.Unverified++
		}
	}

	return stats
}
