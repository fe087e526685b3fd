// Package services composes the storage, ledger and cache layers into the
// operations the HTTP surface calls.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gofinances/internal/cache"
	"gofinances/internal/core"
	"gofinances/internal/ledger"
	"gofinances/internal/locale"
	"gofinances/internal/store"
)

const (
	dashboardCacheSize = 64
	dashboardCacheTTL  = 30 * time.Second
)

// Dashboard is the summary plus the formatted transaction list for one user.
type Dashboard struct {
	Summary ledger.Summary `json:"summary"`
	Entries []ledger.Entry `json:"entries"`
}

// DashboardService loads a user's ledger, summarizes it and caches the result
// briefly. The cache is keyed by user id and invalidated whenever the session
// changes.
type DashboardService struct {
	kv     store.KV
	keys   store.Keys
	loc    locale.Locale
	cached *cache.LRUCache[Dashboard]
}

func NewDashboardService(kv store.KV, keys store.Keys, loc locale.Locale, mgr *cache.Manager) *DashboardService {
	cached := cache.NewLRUCache[Dashboard](dashboardCacheSize, dashboardCacheTTL)
	if mgr != nil {
		mgr.Register(cached)
	}
	return &DashboardService{
		kv:     kv,
		keys:   keys,
		loc:    loc,
		cached: cached,
	}
}

// Load returns the dashboard for the given user, recomputing from the stored
// ledger on cache miss. An empty ledger is a valid dashboard, not an error.
func (s *DashboardService) Load(ctx context.Context, userID string) (Dashboard, error) {
	if userID == "" {
		return Dashboard{}, core.ErrEmptyIdentityID
	}

	if d, ok := s.cached.Get(userID); ok {
		return d, nil
	}

	records, err := ledger.Load(ctx, s.kv, s.keys, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load ledger: %w", err)
	}

	summary, entries, err := ledger.Summarize(records, s.loc)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Summary: summary, Entries: entries}
	s.cached.Set(userID, d)

	slog.DebugContext(ctx, "Dashboard computed", "user_id", userID, "entries", len(entries))
	return d, nil
}

// Invalidate drops the cached dashboard for one user.
func (s *DashboardService) Invalidate(userID string) {
	if userID != "" {
		s.cached.Delete(userID)
	}
}

// SessionSubscriber returns a session-change callback that invalidates the
// cached dashboard for both the departing and the arriving user, so a
// sign-out drops the previous user's entry instead of letting it age out.
func (s *DashboardService) SessionSubscriber() func(core.Identity) {
	var mu sync.Mutex
	var prev string
	return func(identity core.Identity) {
		mu.Lock()
		last := prev
		prev = identity.ID
		mu.Unlock()

		s.Invalidate(last)
		s.Invalidate(identity.ID)
	}
}
