package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateConfig checks every range and enum and reports all violations at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateIcons(config)...)
	validationErrors = append(validationErrors, validateScan(config)...)
	validationErrors = append(validationErrors, validateCache(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	if c := config.Inventory.Concurrency; c < 1 || c > 64 {
		validationErrors = append(validationErrors, fmt.Sprintf("inventory.concurrency must be between 1 and 64 (got %d)", c))
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func inRange(name string, v, lo, hi int) []string {
	if v < lo || v > hi {
		return []string{fmt.Sprintf("%s must be between %d and %d (got %d)", name, lo, hi, v)}
	}
	return nil
}

func validateIcons(config *Config) []string {
	var errs []string
	errs = append(errs, inRange("icons.local_ttl_hours", config.Icons.LocalTTLHours, 1, 168)...)
	errs = append(errs, inRange("icons.fallback_ttl_days", config.Icons.FallbackTTLDays, 1, 30)...)
	errs = append(errs, inRange("icons.preferred_size", config.Icons.PreferredSize, 16, 256)...)
	errs = append(errs, inRange("icons.remote_timeout_seconds", config.Icons.RemoteTimeoutSeconds, 1, 60)...)
	if config.Icons.RemoteEnabled {
		u, err := url.Parse(config.Icons.RemoteBaseURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("icons.remote_base_url must be an http(s) URL (got %q)", config.Icons.RemoteBaseURL))
		}
	}
	return errs
}

func validateScan(config *Config) []string {
	var errs []string
	switch config.Scan.Arch {
	case "", "amd64", "arm64", "386":
	default:
		errs = append(errs, fmt.Sprintf("scan.arch must be one of amd64, arm64, 386 (got %q)", config.Scan.Arch))
	}
	checks := []struct {
		name string
		v    int
	}{
		{"scan.resolve_max_depth", config.Scan.ResolveMaxDepth},
		{"scan.vendor_max_depth", config.Scan.VendorMaxDepth},
		{"scan.max_entries_per_dir", config.Scan.MaxEntriesPerDir},
		{"scan.max_matched_folders", config.Scan.MaxMatchedFolders},
	}
	for _, c := range checks {
		if c.v < 1 {
			errs = append(errs, fmt.Sprintf("%s must be positive (got %d)", c.name, c.v))
		}
	}
	return errs
}

func validateCache(config *Config) []string {
	var errs []string
	if config.Cache.Capacity < 1 {
		errs = append(errs, "cache.capacity must be positive")
	}
	if config.Cache.SweepIntervalMinutes < 0 {
		errs = append(errs, "cache.sweep_interval_minutes must be non-negative")
	}
	return errs
}

func validateLogging(config *Config) []string {
	var errs []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be console or json (got %q)", config.Logging.Format))
	}
	if config.Logging.MaxAgeDays < 0 {
		errs = append(errs, "logging.max_age_days must be non-negative")
	}
	return errs
}
