package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/infrastructure/persistence/sqlite"
)

func TestLazyDB_OpensOnFirstAccessOnly(t *testing.T) {
	ctx := sqliteTestCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "cache", "icons.db"))
	assert.False(t, lazy.IsInitialized())

	db1, err := lazy.DB(ctx)
	require.NoError(t, err)
	db2, err := lazy.DB(ctx)
	require.NoError(t, err)

	assert.True(t, lazy.IsInitialized())
	assert.Same(t, db1, db2)

	version, err := sqlite.MigrationVersion(ctx, db1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var count int
	require.NoError(t, db1.QueryRowContext(ctx, "SELECT COUNT(*) FROM icon_cache").Scan(&count))
	assert.Zero(t, count)

	require.NoError(t, lazy.Close())
	assert.False(t, lazy.IsInitialized())
}

func TestLazyDB_ConcurrentAccess(t *testing.T) {
	ctx := sqliteTestCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "icons.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	const goroutines = 10
	dbs := make([]*sql.DB, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := lazy.DB(ctx)
			assert.NoError(t, err)
			dbs[i] = db
		}()
	}
	wg.Wait()

	for _, db := range dbs[1:] {
		assert.Same(t, dbs[0], db)
	}
}

func TestLazyDB_InitErrorIsSticky(t *testing.T) {
	ctx := sqliteTestCtx()
	lazy := sqlite.NewLazyDB("")

	_, err := lazy.DB(ctx)
	require.ErrorIs(t, err, sqlite.ErrEmptyPath)
	_, err = lazy.DB(ctx)
	require.ErrorIs(t, err, sqlite.ErrEmptyPath)
	assert.False(t, lazy.IsInitialized())
	assert.NoError(t, lazy.Close())
}
