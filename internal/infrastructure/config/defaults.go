package config

import (
	"github.com/bnema/iconscope/internal/domain/iconmatch"
)

const (
	defaultLocalTTLHours        = 24
	defaultFallbackTTLDays      = 7
	defaultPreferredSize        = 32
	defaultRemoteTimeoutSeconds = 5
	defaultResolveMaxDepth      = 3
	defaultVendorMaxDepth       = 2
	defaultMaxEntriesPerDir     = 512
	defaultMaxMatchedFolders    = 8
	defaultCacheCapacity        = 4096
	defaultMaxLogAgeDays        = 14
	defaultConcurrency          = 8
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Icons: IconsConfig{
			LocalTTLHours:        defaultLocalTTLHours,
			FallbackTTLDays:      defaultFallbackTTLDays,
			PreferredSize:        defaultPreferredSize,
			RemoteEnabled:        true,
			RemoteBaseURL:        iconmatch.DefaultIconBaseURL,
			RemoteTimeoutSeconds: defaultRemoteTimeoutSeconds,
			CustomEnabled:        true,
		},
		Scan: ScanConfig{
			ResolveMaxDepth:   defaultResolveMaxDepth,
			VendorMaxDepth:    defaultVendorMaxDepth,
			MaxEntriesPerDir:  defaultMaxEntriesPerDir,
			MaxMatchedFolders: defaultMaxMatchedFolders,
		},
		Cache: CacheConfig{
			Capacity: defaultCacheCapacity,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxAgeDays: defaultMaxLogAgeDays,
		},
		Inventory: InventoryConfig{
			Concurrency: defaultConcurrency,
		},
	}
}

func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("icons.local_ttl_hours", d.Icons.LocalTTLHours)
	m.viper.SetDefault("icons.fallback_ttl_days", d.Icons.FallbackTTLDays)
	m.viper.SetDefault("icons.preferred_size", d.Icons.PreferredSize)
	m.viper.SetDefault("icons.remote_enabled", d.Icons.RemoteEnabled)
	m.viper.SetDefault("icons.remote_base_url", d.Icons.RemoteBaseURL)
	m.viper.SetDefault("icons.remote_timeout_seconds", d.Icons.RemoteTimeoutSeconds)
	m.viper.SetDefault("icons.custom_enabled", d.Icons.CustomEnabled)
	m.viper.SetDefault("icons.custom_dir", "")

	m.viper.SetDefault("scan.search_roots", []string{})
	m.viper.SetDefault("scan.vendor_roots", []string{})
	m.viper.SetDefault("scan.arch", "")
	m.viper.SetDefault("scan.resolve_max_depth", d.Scan.ResolveMaxDepth)
	m.viper.SetDefault("scan.vendor_max_depth", d.Scan.VendorMaxDepth)
	m.viper.SetDefault("scan.max_entries_per_dir", d.Scan.MaxEntriesPerDir)
	m.viper.SetDefault("scan.max_matched_folders", d.Scan.MaxMatchedFolders)

	m.viper.SetDefault("cache.capacity", d.Cache.Capacity)
	m.viper.SetDefault("cache.persist", d.Cache.Persist)
	m.viper.SetDefault("cache.database_path", "")
	m.viper.SetDefault("cache.sweep_interval_minutes", d.Cache.SweepIntervalMinutes)

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)
	m.viper.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)

	m.viper.SetDefault("inventory.concurrency", d.Inventory.Concurrency)
}
