package config

import (
	"strconv"

	"github.com/bnema/iconscope/internal/domain/entity"
)

// Section names for grouping config keys.
const (
	SectionIcons     = "Icons"
	SectionScan      = "Scan"
	SectionCache     = "Cache"
	SectionLogging   = "Logging"
	SectionInventory = "Inventory"
)

// SchemaProvider implements port.ConfigSchemaProvider.
type SchemaProvider struct{}

// NewSchemaProvider creates a new SchemaProvider.
func NewSchemaProvider() *SchemaProvider {
	return &SchemaProvider{}
}

// GetSchema returns all configuration keys with their metadata.
func (p *SchemaProvider) GetSchema() []entity.ConfigKeyInfo {
	defaults := DefaultConfig()

	keys := make([]entity.ConfigKeyInfo, 0, 24)
	keys = append(keys, p.getIconsKeys(defaults)...)
	keys = append(keys, p.getScanKeys(defaults)...)
	keys = append(keys, p.getCacheKeys(defaults)...)
	keys = append(keys, p.getLoggingKeys(defaults)...)
	keys = append(keys, entity.ConfigKeyInfo{
		Key:         "inventory.concurrency",
		Type:        "int",
		Default:     strconv.Itoa(defaults.Inventory.Concurrency),
		Description: "Parallel resolutions during an inventory run",
		Range:       "1-64",
		Section:     SectionInventory,
	})
	return keys
}

func (*SchemaProvider) getIconsKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "icons.local_ttl_hours",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Icons.LocalTTLHours),
			Description: "Lifetime of icons extracted from local files",
			Range:       "1-168",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.fallback_ttl_days",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Icons.FallbackTTLDays),
			Description: "Lifetime of remote and generic icons",
			Range:       "1-30",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.preferred_size",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Icons.PreferredSize),
			Description: "Icon edge in pixels requested from extractors",
			Range:       "16-256",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.remote_enabled",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Icons.RemoteEnabled),
			Description: "Query the remote icon service for well-known programs",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.remote_base_url",
			Type:        "string",
			Default:     defaults.Icons.RemoteBaseURL,
			Description: "Base URL of the remote icon service",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.remote_timeout_seconds",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Icons.RemoteTimeoutSeconds),
			Description: "Timeout of a single remote fetch",
			Range:       "1-60",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.custom_enabled",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Icons.CustomEnabled),
			Description: "Consult user-registered custom icons first",
			Section:     SectionIcons,
		},
		{
			Key:         "icons.custom_dir",
			Type:        "string",
			Default:     "",
			Description: "Custom icon directory (empty uses the XDG data dir)",
			Section:     SectionIcons,
		},
	}
}

func (*SchemaProvider) getScanKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "scan.search_roots",
			Type:        "[]string",
			Default:     "[]",
			Description: "Roots searched for bare executable names",
			Section:     SectionScan,
		},
		{
			Key:         "scan.vendor_roots",
			Type:        "[]string",
			Default:     "[]",
			Description: "Installation roots walked by the vendor scan",
			Section:     SectionScan,
		},
		{
			Key:         "scan.arch",
			Type:        "string",
			Default:     "",
			Description: "Architecture used to derive default roots (empty uses the host)",
			Values:      []string{"amd64", "arm64", "386"},
			Section:     SectionScan,
		},
		{
			Key:         "scan.resolve_max_depth",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Scan.ResolveMaxDepth),
			Description: "Directory depth searched when resolving a bare file name",
			Range:       "1+",
			Section:     SectionScan,
		},
		{
			Key:         "scan.vendor_max_depth",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Scan.VendorMaxDepth),
			Description: "Directory depth of the vendor scan below a matched folder",
			Range:       "1+",
			Section:     SectionScan,
		},
		{
			Key:         "scan.max_entries_per_dir",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Scan.MaxEntriesPerDir),
			Description: "Entries read from a single directory",
			Range:       "1+",
			Section:     SectionScan,
		},
		{
			Key:         "scan.max_matched_folders",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Scan.MaxMatchedFolders),
			Description: "Vendor folders inspected per request",
			Range:       "1+",
			Section:     SectionScan,
		},
	}
}

func (*SchemaProvider) getCacheKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "cache.capacity",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Cache.Capacity),
			Description: "Entries kept per tier before eviction",
			Range:       "1+",
			Section:     SectionCache,
		},
		{
			Key:         "cache.persist",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Cache.Persist),
			Description: "Persist cached icons in SQLite across runs",
			Section:     SectionCache,
		},
		{
			Key:         "cache.database_path",
			Type:        "string",
			Default:     "",
			Description: "Cache database file (empty uses the XDG state dir)",
			Section:     SectionCache,
		},
		{
			Key:         "cache.sweep_interval_minutes",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Cache.SweepIntervalMinutes),
			Description: "Background sweep of expired entries (0 disables it)",
			Range:       "0+",
			Section:     SectionCache,
		},
	}
}

func (*SchemaProvider) getLoggingKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "logging.level",
			Type:        "string",
			Default:     defaults.Logging.Level,
			Description: "Log verbosity level",
			Values:      []string{"trace", "debug", "info", "warn", "error"},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.format",
			Type:        "string",
			Default:     defaults.Logging.Format,
			Description: "Console output format",
			Values:      []string{"console", "json"},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Logging.File),
			Description: "Also write JSON logs to the XDG state dir",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.max_age_days",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Logging.MaxAgeDays),
			Description: "Days rotated log files are kept (0 keeps them forever)",
			Range:       "0+",
			Section:     SectionLogging,
		},
	}
}
