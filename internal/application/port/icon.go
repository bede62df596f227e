package port

import (
	"context"
	"time"

	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/domain/iconmatch"
)

// PathResolver turns a stored icon path into an existing file path.
// It returns entity.ErrNotFound when nothing exists at the resolved location.
type PathResolver interface {
	// Normalize applies the textual cleanup of Resolve without touching the
	// filesystem. Its result is stable enough to key caches on.
	Normalize(raw string) string
	Resolve(ctx context.Context, raw string) (string, error)
}

// IconExtractor decodes the icon stored in (or embedded in) a file.
// Failures are *entity.ExtractionError.
type IconExtractor interface {
	Extract(ctx context.Context, path string, preferredSize int) (entity.IconImage, error)
	// ExtractBytes decodes a payload identified by its content.
	ExtractBytes(ctx context.Context, data []byte, preferredSize int, source string) (entity.IconImage, error)
}

// VendorScanner searches installation roots for the executable of a program
// whose deployment is managed by a vendor tool.
type VendorScanner interface {
	FindExecutable(ctx context.Context, programName, publisher, archHint string) (string, error)
}

// RemoteIconProvider maps a program to a well-known identity and downloads
// its icon. Fetch failures are *entity.FetchError.
type RemoteIconProvider interface {
	Lookup(name, publisher string) (iconmatch.Identity, bool)
	Fetch(ctx context.Context, identity iconmatch.Identity) (entity.IconImage, error)
}

// GenericIconProvider returns the built-in icon for a program type. It never fails.
type GenericIconProvider interface {
	IconFor(programType entity.ProgramType) entity.IconImage
}

// CustomIconStore holds user-assigned icons keyed by program name.
// Get must not perform I/O.
type CustomIconStore interface {
	Get(name string) (entity.CustomIcon, bool)
	Set(ctx context.Context, icon entity.CustomIcon) error
	Remove(ctx context.Context, name string) error
	List() []entity.CustomIcon
}

// IconCacheStore is the two-tier icon cache.
type IconCacheStore interface {
	// Get returns a live entry from either tier.
	Get(key entity.CacheKey) (entity.ResolvedIcon, bool)
	Put(key entity.CacheKey, icon entity.ResolvedIcon, tier entity.CacheTier)
	Clear(tier entity.CacheTier)
	Stats(tier entity.CacheTier) entity.CacheStats
	SetTTL(tier entity.CacheTier, ttl time.Duration)
	// Invalidate removes every entry match selects and returns how many.
	Invalidate(match func(key entity.CacheKey, icon entity.ResolvedIcon) bool) int
}

// IconCacheRepository persists cache entries across runs.
type IconCacheRepository interface {
	LoadAll(ctx context.Context) ([]entity.CacheEntry, error)
	Save(ctx context.Context, entry entity.CacheEntry) error
	Delete(ctx context.Context, key entity.CacheKey) error
	DeleteTier(ctx context.Context, tier entity.CacheTier) error
	DeleteExpired(ctx context.Context, tier entity.CacheTier, before time.Time) (int64, error)
}

// Clock is the time source used for TTL decisions.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
