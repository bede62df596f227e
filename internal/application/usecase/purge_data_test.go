package usecase_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/infrastructure/filesystem"
)

type fakePaths struct{}

func (fakePaths) ConfigDir() (string, error)     { return "/cfg/iconscope", nil }
func (fakePaths) CustomIconDir() (string, error) { return "/data/iconscope/custom_icons", nil }
func (fakePaths) DatabaseFile() (string, error)  { return "/state/iconscope/icon-cache.sqlite", nil }
func (fakePaths) LogDir() (string, error)        { return "/state/iconscope/logs", nil }

func seedPurgeFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/cfg/iconscope/config.toml":                    "[icons]\n",
		"/data/iconscope/custom_icons/7-Zip.json":       `{"name":"7-Zip"}`,
		"/state/iconscope/icon-cache.sqlite":            "sqlite",
		"/state/iconscope/icon-cache.sqlite-wal":        "wal",
		"/state/iconscope/logs/iconscope-2026-10-19.log": "{}",
	}
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
	}
	return fsys
}

func TestPurgeData_GetPurgeTargets(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewPurgeDataUseCase(filesystem.New(seedPurgeFs(t)), fakePaths{})

	targets, err := uc.GetPurgeTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 4)

	byType := make(map[entity.PurgeTargetType]entity.PurgeTarget)
	for _, target := range targets {
		byType[target.Type] = target
	}
	assert.True(t, byType[entity.PurgeTargetConfig].Exists)
	assert.Equal(t, int64(len("[icons]\n")), byType[entity.PurgeTargetConfig].Size)
	assert.Equal(t, int64(len("sqlite")), byType[entity.PurgeTargetCacheDatabase].Size)
	assert.True(t, byType[entity.PurgeTargetLogs].Exists)
}

func TestPurgeData_ExecuteSelected(t *testing.T) {
	ctx := testContext()
	fsys := seedPurgeFs(t)
	uc := usecase.NewPurgeDataUseCase(filesystem.New(fsys), fakePaths{})

	out, err := uc.Execute(ctx, usecase.PurgeInput{
		TargetTypes: []entity.PurgeTargetType{entity.PurgeTargetCacheDatabase},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.SuccessCount)
	assert.Zero(t, out.FailureCount)

	for path, want := range map[string]bool{
		"/state/iconscope/icon-cache.sqlite":     false,
		"/state/iconscope/icon-cache.sqlite-wal": false,
		"/cfg/iconscope/config.toml":             true,
		"/state/iconscope/logs":                  true,
	} {
		exists, err := afero.Exists(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, want, exists, path)
	}
}

func TestPurgeData_PurgeAllSkipsMissing(t *testing.T) {
	ctx := testContext()
	fsys := seedPurgeFs(t)
	require.NoError(t, fsys.RemoveAll("/state/iconscope/logs"))
	uc := usecase.NewPurgeDataUseCase(filesystem.New(fsys), fakePaths{})

	out, err := uc.PurgeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, out.SuccessCount)
	assert.Len(t, out.Results, 3)

	exists, err := afero.DirExists(fsys, "/data/iconscope/custom_icons")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPurgeData_CollectsFailures(t *testing.T) {
	ctx := testContext()
	uc := usecase.NewPurgeDataUseCase(filesystem.New(afero.NewReadOnlyFs(seedPurgeFs(t))), fakePaths{})

	out, err := uc.PurgeAll(ctx)
	require.Error(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 4, out.FailureCount)
	for _, res := range out.Results {
		assert.False(t, res.Success)
		assert.Error(t, res.Error)
	}
}

func TestParsePurgeTargetType(t *testing.T) {
	for _, name := range []string{"config", "custom", "cache", "logs"} {
		tt, ok := entity.ParsePurgeTargetType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, tt.String())
	}
	_, ok := entity.ParsePurgeTargetType("desktop")
	assert.False(t, ok)
}
