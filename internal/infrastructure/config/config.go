// Package config loads iconscope settings with Viper from a TOML file under
// the XDG config directory, overridable by ICONSCOPE_ environment variables.
package config

import "time"

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config is the complete iconscope configuration.
type Config struct {
	Icons     IconsConfig     `mapstructure:"icons" json:"icons" jsonschema:"description=Icon resolution and cache lifetimes"`
	Scan      ScanConfig      `mapstructure:"scan" json:"scan" jsonschema:"description=Filesystem search bounds"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache" jsonschema:"description=Cache capacity and persistence"`
	Logging   LoggingConfig   `mapstructure:"logging" json:"logging"`
	Inventory InventoryConfig `mapstructure:"inventory" json:"inventory"`
}

// IconsConfig controls the resolution chain.
type IconsConfig struct {
	LocalTTLHours        int    `mapstructure:"local_ttl_hours" json:"local_ttl_hours" jsonschema:"minimum=1,maximum=168,default=24,description=Lifetime of icons extracted from local files"`
	FallbackTTLDays      int    `mapstructure:"fallback_ttl_days" json:"fallback_ttl_days" jsonschema:"minimum=1,maximum=30,default=7,description=Lifetime of remote and generic icons"`
	PreferredSize        int    `mapstructure:"preferred_size" json:"preferred_size" jsonschema:"minimum=16,maximum=256,default=32"`
	RemoteEnabled        bool   `mapstructure:"remote_enabled" json:"remote_enabled" jsonschema:"default=true"`
	RemoteBaseURL        string `mapstructure:"remote_base_url" json:"remote_base_url" jsonschema:"format=uri"`
	RemoteTimeoutSeconds int    `mapstructure:"remote_timeout_seconds" json:"remote_timeout_seconds" jsonschema:"minimum=1,maximum=60,default=5"`
	CustomEnabled        bool   `mapstructure:"custom_enabled" json:"custom_enabled" jsonschema:"default=true"`
	// CustomDir defaults to <data dir>/custom_icons.
	CustomDir string `mapstructure:"custom_dir" json:"custom_dir,omitempty"`
}

// LocalTTL returns the local tier lifetime.
func (c IconsConfig) LocalTTL() time.Duration {
	return time.Duration(c.LocalTTLHours) * time.Hour
}

// FallbackTTL returns the fallback tier lifetime.
func (c IconsConfig) FallbackTTL() time.Duration {
	return time.Duration(c.FallbackTTLDays) * 24 * time.Hour
}

// RemoteTimeout returns the remote fetch timeout.
func (c IconsConfig) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

// ScanConfig bounds the path resolver and vendor scanner.
type ScanConfig struct {
	// SearchRoots override the roots bare file names are searched under.
	SearchRoots []string `mapstructure:"search_roots" json:"search_roots,omitempty"`
	// VendorRoots override the architecture-derived installation roots.
	VendorRoots       []string `mapstructure:"vendor_roots" json:"vendor_roots,omitempty"`
	Arch              string   `mapstructure:"arch" json:"arch,omitempty" jsonschema:"enum=amd64,enum=arm64,enum=386"`
	ResolveMaxDepth   int      `mapstructure:"resolve_max_depth" json:"resolve_max_depth" jsonschema:"minimum=1,default=3"`
	VendorMaxDepth    int      `mapstructure:"vendor_max_depth" json:"vendor_max_depth" jsonschema:"minimum=1,default=2"`
	MaxEntriesPerDir  int      `mapstructure:"max_entries_per_dir" json:"max_entries_per_dir" jsonschema:"minimum=1,default=512"`
	MaxMatchedFolders int      `mapstructure:"max_matched_folders" json:"max_matched_folders" jsonschema:"minimum=1,default=8"`
}

// CacheConfig controls the icon cache store.
type CacheConfig struct {
	Capacity             int    `mapstructure:"capacity" json:"capacity" jsonschema:"minimum=1,default=4096"`
	Persist              bool   `mapstructure:"persist" json:"persist" jsonschema:"default=false"`
	DatabasePath         string `mapstructure:"database_path" json:"database_path,omitempty"`
	SweepIntervalMinutes int    `mapstructure:"sweep_interval_minutes" json:"sweep_interval_minutes" jsonschema:"minimum=0,default=0,description=0 disables the background sweep"`
}

// SweepInterval returns the janitor interval; zero disables it.
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Format     string `mapstructure:"format" json:"format" jsonschema:"enum=console,enum=json,default=console"`
	File       bool   `mapstructure:"file" json:"file"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days" jsonschema:"minimum=0,default=14"`
}

// InventoryConfig tunes the inventory command.
type InventoryConfig struct {
	Concurrency int `mapstructure:"concurrency" json:"concurrency" jsonschema:"minimum=1,maximum=64,default=8"`
}
