package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/iconscope/internal/logging"
)

func sqliteTestCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func entry(key string, tier entity.CacheTier, at time.Time) entity.CacheEntry {
	return entity.CacheEntry{
		Key:        entity.CacheKey(key),
		Tier:       tier,
		InsertedAt: at,
		Icon: entity.ResolvedIcon{
			Data:       []byte("<svg/>"),
			Format:     entity.IconFormatSVG,
			Size:       32,
			Provenance: entity.ProvenanceGeneric,
			Source:     "builtin:unknown.svg",
		},
	}
}

func TestIconCacheRepository_SaveLoadDelete(t *testing.T) {
	ctx := sqliteTestCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "iconscope.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewIconCacheRepository(db)
	t0 := time.Date(2026, 4, 1, 8, 30, 0, 123456789, time.UTC)

	require.NoError(t, repo.Save(ctx, entry("a", entity.CacheTierLocal, t0)))
	require.NoError(t, repo.Save(ctx, entry("b", entity.CacheTierFallback, t0)))
	require.NoError(t, repo.Save(ctx, entry("c", entity.CacheTierFallback, t0.Add(time.Hour))))
	// upsert moves "a" to the fallback tier with a new timestamp
	require.NoError(t, repo.Save(ctx, entry("a", entity.CacheTierFallback, t0.Add(2*time.Hour))))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	byKey := make(map[entity.CacheKey]entity.CacheEntry)
	for _, e := range all {
		byKey[e.Key] = e
	}
	assert.Equal(t, entity.CacheTierFallback, byKey["a"].Tier)
	assert.True(t, byKey["b"].InsertedAt.Equal(t0), "timestamps keep nanosecond precision")
	assert.Equal(t, entity.ProvenanceGeneric, byKey["b"].Icon.Provenance)
	assert.Equal(t, []byte("<svg/>"), byKey["b"].Icon.Data)

	require.NoError(t, repo.Delete(ctx, "c"))
	require.NoError(t, repo.Save(ctx, entry("c", entity.CacheTierFallback, t0.Add(time.Hour))))

	n, err := repo.DeleteExpired(ctx, entity.CacheTierFallback, t0.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.DeleteTier(ctx, entity.CacheTierFallback))
	all, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewConnection_RejectsEmptyPath(t *testing.T) {
	_, err := sqlite.NewConnection(sqliteTestCtx(), "")
	assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
}
