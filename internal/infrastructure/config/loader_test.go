package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/infrastructure/iconcache"
)

func tempDirs(t *testing.T) *XDGDirs {
	t.Helper()
	root := t.TempDir()
	return &XDGDirs{
		ConfigHome: filepath.Join(root, "config"),
		DataHome:   filepath.Join(root, "data"),
		StateHome:  filepath.Join(root, "state"),
	}
}

func writeConfig(t *testing.T, dirs *XDGDirs, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dirs.ConfigHome, 0o755))
	require.NoError(t, os.WriteFile(dirs.ConfigFile(), []byte(body), 0o644))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, 24, mgr.viper.GetInt("icons.local_ttl_hours"))
	assert.Equal(t, 7, mgr.viper.GetInt("icons.fallback_ttl_days"))
	assert.True(t, mgr.viper.GetBool("icons.remote_enabled"))
	assert.False(t, mgr.viper.GetBool("cache.persist"))
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	dirs := tempDirs(t)
	mgr, err := NewManagerWithDirs(dirs)
	require.NoError(t, err)

	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 24*time.Hour, cfg.Icons.LocalTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Icons.FallbackTTL())
	assert.Equal(t, dirs.CustomIconDir(), cfg.Icons.CustomDir)
	assert.Equal(t, dirs.DatabaseFile(), cfg.Cache.DatabasePath)
	assert.FileExists(t, dirs.ConfigFile())
	assert.FileExists(t, dirs.SchemaFile())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dirs := tempDirs(t)
	writeConfig(t, dirs, `
[icons]
local_ttl_hours = 48
remote_enabled = false

[scan]
arch = "x86"
vendor_roots = ["D:/Apps", "  "]

[logging]
level = "WARNING"
`)
	t.Setenv("ICONSCOPE_ICONS_FALLBACK_TTL_DAYS", "14")
	t.Setenv("ICONSCOPE_LOG_FORMAT", "json")

	mgr, err := NewManagerWithDirs(dirs)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, 48, cfg.Icons.LocalTTLHours)
	assert.Equal(t, 14, cfg.Icons.FallbackTTLDays)
	assert.False(t, cfg.Icons.RemoteEnabled)
	assert.Equal(t, "386", cfg.Scan.Arch)
	assert.Equal(t, []string{"D:/Apps"}, cfg.Scan.VendorRoots)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	dirs := tempDirs(t)
	writeConfig(t, dirs, `
[icons]
local_ttl_hours = 200
fallback_ttl_days = 0
`)
	mgr, err := NewManagerWithDirs(dirs)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icons.local_ttl_hours")
	assert.Contains(t, err.Error(), "icons.fallback_ttl_days")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "ttl lower bound", mutate: func(c *Config) { c.Icons.LocalTTLHours = 1; c.Icons.FallbackTTLDays = 1 }},
		{name: "ttl upper bound", mutate: func(c *Config) { c.Icons.LocalTTLHours = 168; c.Icons.FallbackTTLDays = 30 }},
		{name: "fallback too long", mutate: func(c *Config) { c.Icons.FallbackTTLDays = 31 }, wantErr: "icons.fallback_ttl_days"},
		{name: "size too small", mutate: func(c *Config) { c.Icons.PreferredSize = 8 }, wantErr: "icons.preferred_size"},
		{name: "bad base url", mutate: func(c *Config) { c.Icons.RemoteBaseURL = "cdn" }, wantErr: "icons.remote_base_url"},
		{name: "bad url ignored when remote off", mutate: func(c *Config) { c.Icons.RemoteEnabled = false; c.Icons.RemoteBaseURL = "" }},
		{name: "bad arch", mutate: func(c *Config) { c.Scan.Arch = "ppc" }, wantErr: "scan.arch"},
		{name: "zero depth", mutate: func(c *Config) { c.Scan.VendorMaxDepth = 0 }, wantErr: "scan.vendor_max_depth"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "concurrency", mutate: func(c *Config) { c.Inventory.Concurrency = 0 }, wantErr: "inventory.concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatch_HotAppliesTTLs(t *testing.T) {
	dirs := tempDirs(t)
	writeConfig(t, dirs, "[icons]\nlocal_ttl_hours = 24\n")
	mgr, err := NewManagerWithDirs(dirs)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	store := iconcache.NewStore(iconcache.Options{})
	var reloads atomic.Int32
	mgr.OnConfigChange(ApplyTTLs(context.Background(), store))
	mgr.OnConfigChange(func(*Config) { reloads.Add(1) })
	require.NoError(t, mgr.Watch(context.Background()))

	writeConfig(t, dirs, "[icons]\nlocal_ttl_hours = 72\nfallback_ttl_days = 3\n")

	require.Eventually(t, func() bool {
		return store.TTL(entity.CacheTierLocal) == 72*time.Hour
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 3*24*time.Hour, store.TTL(entity.CacheTierFallback))
	assert.Equal(t, 72, mgr.Get().Icons.LocalTTLHours)
	assert.Positive(t, reloads.Load())
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "iconscope configuration", doc["title"])
	assert.Contains(t, string(data), "local_ttl_hours")
	assert.Contains(t, string(data), "fallback_ttl_days")
}
