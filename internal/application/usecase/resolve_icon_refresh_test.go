package usecase_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/domain/iconmatch"
	"github.com/bnema/iconscope/internal/infrastructure/genericicon"
	"github.com/bnema/iconscope/internal/infrastructure/iconcache"
	"github.com/bnema/iconscope/internal/infrastructure/remoteicon"
)

// manualClock is a settable time source.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var _ port.Clock = (*manualClock)(nil)

var chrome = entity.IconRequest{
	Name:        "Google Chrome",
	Publisher:   "Google LLC",
	ProgramType: entity.ProgramTypeApplication,
}

// newRemoteResolver wires the real remote provider against a counting server.
func newRemoteResolver(t *testing.T, clock port.Clock) (*usecase.ResolveIconUseCase, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"/>`))
	}))
	t.Cleanup(srv.Close)

	store := iconcache.NewStore(iconcache.Options{Clock: clock, FallbackTTL: 24 * time.Hour})
	uc := usecase.NewResolveIconUseCase(store, usecase.IconSources{
		Resolver:  &fakeResolver{files: map[string]bool{}},
		Extractor: &fakeExtractor{known: map[string]bool{}},
		Scanner:   &fakeScanner{exes: map[string]string{}},
		Remote: remoteicon.NewProvider(iconmatch.DefaultCatalog(), remoteicon.Options{
			BaseURL: srv.URL + "/icons/",
			Timeout: 2 * time.Second,
		}),
		Generic: genericicon.MustNewProvider(32),
	}, usecase.ResolveOptions{PreferredSize: 32, RemoteEnabled: true})
	return uc, &hits
}

func TestResolveIcon_ClearedFallbackFetchesRemoteAgain(t *testing.T) {
	ctx := testContext()
	uc, hits := newRemoteResolver(t, port.SystemClock)

	icon, err := uc.ResolveIcon(ctx, chrome)
	require.NoError(t, err)
	require.Equal(t, entity.ProvenanceRemoteFallback, icon.Provenance)
	assert.Equal(t, int32(1), hits.Load())

	_, err = uc.ResolveIcon(ctx, chrome)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "served from the fallback tier")

	uc.ClearCache(ctx, entity.CacheTierBoth)
	icon, err = uc.ResolveIcon(ctx, chrome)
	require.NoError(t, err)
	assert.Equal(t, entity.ProvenanceRemoteFallback, icon.Provenance)
	assert.Equal(t, int32(2), hits.Load(), "clearing the cache leaves no stale payload behind")
}

func TestResolveIcon_ExpiredFallbackFetchesRemoteAgain(t *testing.T) {
	ctx := testContext()
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	uc, hits := newRemoteResolver(t, clock)

	_, err := uc.ResolveIcon(ctx, chrome)
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	clock.Advance(25 * time.Hour)
	icon, err := uc.ResolveIcon(ctx, chrome)
	require.NoError(t, err)
	assert.Equal(t, entity.ProvenanceRemoteFallback, icon.Provenance)
	assert.Equal(t, int32(2), hits.Load())
}

func TestResolveIcon_CustomHitKeepsLiveEntry(t *testing.T) {
	ctx := testContext()
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := iconcache.NewStore(iconcache.Options{Clock: clock, LocalTTL: time.Hour})
	custom := &fakeCustom{icons: map[string]entity.CustomIcon{}}
	uc := usecase.NewResolveIconUseCase(store, usecase.IconSources{
		Resolver:  &fakeResolver{files: map[string]bool{}},
		Extractor: &fakeExtractor{known: map[string]bool{}},
		Scanner:   &fakeScanner{exes: map[string]string{}},
		Remote:    &fakeRemote{catalog: iconmatch.DefaultCatalog()},
		Generic:   genericicon.MustNewProvider(32),
		Custom:    custom,
	}, usecase.ResolveOptions{PreferredSize: 32, CustomEnabled: true})

	_, err := uc.RegisterCustomIcon(ctx, "AnyDesk", []byte("png-bytes"))
	require.NoError(t, err)

	_, err = uc.ResolveIcon(ctx, anyDesk)
	require.NoError(t, err)
	clock.Advance(50 * time.Minute)
	_, err = uc.ResolveIcon(ctx, anyDesk)
	require.NoError(t, err)

	// Had the second hit rewritten the entry, it would still be live here.
	clock.Advance(20 * time.Minute)
	stats := uc.CacheStats(entity.CacheTierLocal)
	assert.Equal(t, 1, stats.ExpiredEntries)
	assert.Zero(t, stats.ValidEntries)

	icon, err := uc.ResolveIcon(ctx, anyDesk)
	require.NoError(t, err)
	assert.Equal(t, entity.ProvenanceCustom, icon.Provenance)
	assert.Equal(t, 1, uc.CacheStats(entity.CacheTierLocal).ValidEntries, "an expired entry is refreshed")
}

func TestResolveIcon_ReRegisteredCustomReplacesEntry(t *testing.T) {
	ctx := testContext()
	f := newFixture(t)

	_, err := f.uc.RegisterCustomIcon(ctx, "AnyDesk", []byte("png-v1"))
	require.NoError(t, err)
	_, err = f.uc.ResolveIcon(ctx, anyDesk)
	require.NoError(t, err)

	_, err = f.uc.RegisterCustomIcon(ctx, "AnyDesk", []byte("png-v2"))
	require.NoError(t, err)
	icon, err := f.uc.ResolveIcon(ctx, anyDesk)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-v2"), icon.Data)

	f.custom.icons = map[string]entity.CustomIcon{}
	cached, err := f.uc.ResolveIcon(ctx, anyDesk)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-v2"), cached.Data, "the cache holds the latest custom payload")
}
