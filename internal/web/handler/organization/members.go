package organization

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
)

const (
	memberCountCacheSize = 512
	memberCountTTL       = time.Minute
	memberCountWorkers   = 8
)

// memberCounter fetches member counts per organization. Counts are cached
// for memberCountTTL and dropped on every member mutation.
type memberCounter struct {
	api   authapi.OrganizationAPI
	cache *lru.LRU[string, int]
}

func newMemberCounter(api authapi.OrganizationAPI) *memberCounter {
	return &memberCounter{
		api:   api,
		cache: lru.NewLRU[string, int](memberCountCacheSize, nil, memberCountTTL),
	}
}

// Counts returns the member count of every organization in orgs, in order.
// A failed fetch counts as 0 and is not cached.
func (m *memberCounter) Counts(ctx context.Context, orgs []authapi.Organization) []int {
	counts := make([]int, len(orgs))

	eg := new(errgroup.Group)
	eg.SetLimit(memberCountWorkers)

	for i, org := range orgs {
		if n, ok := m.cache.Get(org.ID); ok {
			counts[i] = n
			continue
		}

		eg.Go(func() error {
			full, err := m.api.GetFullOrganization(ctx, org.ID)
			if err != nil {
				log.Warn().Err(err).Str("organization", org.ID).Msg("failed to count members")
				return nil
			}

			counts[i] = len(full.Members)
			m.cache.Add(org.ID, counts[i])

			return nil
		})
	}

	_ = eg.Wait() // the workers never fail

	return counts
}

// Invalidate drops the cached count of orgID.
func (m *memberCounter) Invalidate(orgID string) {
	m.cache.Remove(orgID)
}
