package iconcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

const (
	DefaultLocalTTL    = 24 * time.Hour
	DefaultFallbackTTL = 7 * 24 * time.Hour
	DefaultCapacity    = 4096
)

// Options configures a Store.
type Options struct {
	LocalTTL    time.Duration
	FallbackTTL time.Duration
	// Capacity bounds each tier independently.
	Capacity int
	Clock    port.Clock
	// Writer mirrors mutations to persistent storage. Optional.
	Writer *Writer
}

type tier struct {
	ttl     time.Duration
	entries *LRU[entity.CacheKey, entity.CacheEntry]
}

// Store is the two-tier icon cache. Tiers have independent TTLs and
// capacities; expiry is lazy and an optional janitor sweeps expired entries.
type Store struct {
	clock  port.Clock
	writer *Writer

	mu    sync.RWMutex // guards tier TTLs
	tiers map[entity.CacheTier]*tier
}

// NewStore creates an empty Store.
func NewStore(opts Options) *Store {
	if opts.LocalTTL <= 0 {
		opts.LocalTTL = DefaultLocalTTL
	}
	if opts.FallbackTTL <= 0 {
		opts.FallbackTTL = DefaultFallbackTTL
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Clock == nil {
		opts.Clock = port.SystemClock
	}
	return &Store{
		clock:  opts.Clock,
		writer: opts.Writer,
		tiers: map[entity.CacheTier]*tier{
			entity.CacheTierLocal:    {ttl: opts.LocalTTL, entries: NewLRU[entity.CacheKey, entity.CacheEntry](opts.Capacity, nil)},
			entity.CacheTierFallback: {ttl: opts.FallbackTTL, entries: NewLRU[entity.CacheKey, entity.CacheEntry](opts.Capacity, nil)},
		},
	}
}

func (s *Store) ttl(t entity.CacheTier) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiers[t].ttl
}

// Get returns a copy of the live entry for key, looking in the local tier
// first. Expired entries are treated as absent.
func (s *Store) Get(key entity.CacheKey) (entity.ResolvedIcon, bool) {
	now := s.clock.Now()
	for _, t := range entity.CacheTierBoth.Tiers() {
		e, ok := s.tiers[t].entries.Get(key)
		if ok && e.ValidAt(now, s.ttl(t)) {
			return e.Icon.Clone(), true
		}
	}
	return entity.ResolvedIcon{}, false
}

// Put stores icon under key in tier, replacing any copy in the other tier.
func (s *Store) Put(key entity.CacheKey, icon entity.ResolvedIcon, t entity.CacheTier) {
	tr, ok := s.tiers[t]
	if !ok {
		return
	}
	entry := entity.CacheEntry{
		Key:        key,
		Icon:       icon.Clone(),
		InsertedAt: s.clock.Now(),
		Tier:       t,
	}
	tr.entries.Set(key, entry)
	for other, otr := range s.tiers {
		if other != t {
			otr.entries.Remove(key)
		}
	}
	if s.writer != nil {
		s.writer.Save(entry)
	}
}

// Clear empties the given tier, or both.
func (s *Store) Clear(t entity.CacheTier) {
	for _, ct := range t.Tiers() {
		if tr, ok := s.tiers[ct]; ok {
			tr.entries.Clear()
			if s.writer != nil {
				s.writer.DeleteTier(ct)
			}
		}
	}
}

// Invalidate removes the entries of both tiers that match selects.
func (s *Store) Invalidate(match func(key entity.CacheKey, icon entity.ResolvedIcon) bool) int {
	removed := 0
	for _, ct := range entity.CacheTierBoth.Tiers() {
		var keys []entity.CacheKey
		removed += s.tiers[ct].entries.RemoveIf(func(k entity.CacheKey, e entity.CacheEntry) bool {
			if match(k, e.Icon) {
				keys = append(keys, k)
				return true
			}
			return false
		})
		if s.writer != nil {
			for _, k := range keys {
				s.writer.Delete(k)
			}
		}
	}
	return removed
}

// Stats counts entries of the given tier, or both, against the TTLs at call time.
func (s *Store) Stats(t entity.CacheTier) entity.CacheStats {
	now := s.clock.Now()
	stats := entity.CacheStats{Tier: t}
	for _, ct := range t.Tiers() {
		tr, ok := s.tiers[ct]
		if !ok {
			continue
		}
		ttl := s.ttl(ct)
		tr.entries.Range(func(_ entity.CacheKey, e entity.CacheEntry) bool {
			stats.TotalEntries++
			if e.ValidAt(now, ttl) {
				stats.ValidEntries++
			} else {
				stats.ExpiredEntries++
			}
			return true
		})
	}
	return stats
}

// SetTTL changes a tier's TTL. It applies to existing entries immediately.
func (s *Store) SetTTL(t entity.CacheTier, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ct := range t.Tiers() {
		if tr, ok := s.tiers[ct]; ok {
			tr.ttl = ttl
		}
	}
}

// TTL returns the current TTL of a concrete tier.
func (s *Store) TTL(t entity.CacheTier) time.Duration {
	if _, ok := s.tiers[t]; !ok {
		return 0
	}
	return s.ttl(t)
}

// Sweep removes expired entries from both tiers and returns how many went.
func (s *Store) Sweep() int {
	now := s.clock.Now()
	removed := 0
	for _, ct := range entity.CacheTierBoth.Tiers() {
		ttl := s.ttl(ct)
		removed += s.tiers[ct].entries.RemoveIf(func(_ entity.CacheKey, e entity.CacheEntry) bool {
			return !e.ValidAt(now, ttl)
		})
		if s.writer != nil {
			s.writer.DeleteExpired(ct, now.Add(-ttl))
		}
	}
	return removed
}

// Load restores persisted entries. Entries keep their original insertion
// time, so those already past their TTL are skipped.
func (s *Store) Load(ctx context.Context, repo port.IconCacheRepository) (int, error) {
	entries, err := repo.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load icon cache: %w", err)
	}
	now := s.clock.Now()
	loaded := 0
	for _, e := range entries {
		tr, ok := s.tiers[e.Tier]
		if !ok || !e.ValidAt(now, s.ttl(e.Tier)) {
			continue
		}
		tr.entries.Set(e.Key, e)
		loaded++
	}
	logging.FromContext(ctx).Debug().Int("loaded", loaded).Int("stored", len(entries)).Msg("icon cache restored")
	return loaded, nil
}

// StartJanitor sweeps expired entries every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := logging.FromContext(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Debug().Int("removed", n).Msg("icon cache sweep")
				}
			}
		}
	}()
}

var _ port.IconCacheStore = (*Store)(nil)
