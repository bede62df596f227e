package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	dirs      *XDGDirs
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a manager rooted at the XDG directories.
func NewManager() (*Manager, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerWithDirs(dirs)
}

// NewManagerWithDirs creates a manager rooted at dirs.
func NewManagerWithDirs(dirs *XDGDirs) (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dirs.ConfigHome)

	// ICONSCOPE_ICONS_LOCAL_TTL_HOURS overrides icons.local_ttl_hours, and so on
	v.SetEnvPrefix("ICONSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "ICONSCOPE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind ICONSCOPE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "ICONSCOPE_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind ICONSCOPE_LOG_FORMAT: %w", err)
	}

	return &Manager{viper: v, dirs: dirs}, nil
}

// Dirs returns the directories the manager works in.
func (m *Manager) Dirs() *XDGDirs {
	return m.dirs
}

// Load loads the configuration from file and environment variables,
// writing a default file on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dirs.Ensure(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload(false)
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.dirs.ConfigFile(), err)
	}
	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf("failed to create default config at %s: %w", m.dirs.ConfigFile(), createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// reload rebuilds the config from viper. Must be called with m.mu held.
func (m *Manager) reload(reread bool) error {
	if reread {
		if err := m.viper.ReadInConfig(); err != nil {
			return err
		}
	}
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches", m.viper.ConfigFileUsed(), err)
	}
	m.fillPaths(config)
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = config
	return nil
}

func (m *Manager) fillPaths(config *Config) {
	if config.Icons.CustomDir == "" {
		config.Icons.CustomDir = m.dirs.CustomIconDir()
	}
	if config.Cache.DatabasePath == "" {
		config.Cache.DatabasePath = m.dirs.DatabaseFile()
	}
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
	switch strings.ToLower(strings.TrimSpace(config.Logging.Format)) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = "console"
	}
	config.Scan.Arch = strings.ToLower(strings.TrimSpace(config.Scan.Arch))
	switch config.Scan.Arch {
	case "x64", "x86_64":
		config.Scan.Arch = "amd64"
	case "x86", "i386":
		config.Scan.Arch = "386"
	case "aarch64":
		config.Scan.Arch = "arm64"
	}
	config.Icons.RemoteBaseURL = strings.TrimSpace(config.Icons.RemoteBaseURL)
	config.Scan.SearchRoots = compact(config.Scan.SearchRoots)
	config.Scan.VendorRoots = compact(config.Scan.VendorRoots)
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// ConfigFile returns the path to the configuration file being used.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.dirs.ConfigFile()
}

func (m *Manager) createDefaultConfig() error {
	configFile := m.dirs.ConfigFile()
	if err := os.MkdirAll(m.dirs.ConfigHome, dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := WriteSchemaFile(m.dirs.SchemaFile()); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", configFile)
	return nil
}
