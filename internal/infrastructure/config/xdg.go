package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "iconscope"
	databaseName = "icon-cache.sqlite"
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs returns the XDG Base Directory paths for iconscope:
// - $XDG_CONFIG_HOME/iconscope (default: ~/.config/iconscope)
// - $XDG_DATA_HOME/iconscope (default: ~/.local/share/iconscope)
// - $XDG_STATE_HOME/iconscope (default: ~/.local/state/iconscope)
func GetXDGDirs() (*XDGDirs, error) {
	// Development mode: use .dev directory in current working directory
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		devDir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: devDir, DataHome: devDir, StateHome: devDir}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return &XDGDirs{
		ConfigHome: filepath.Join(xdgBase("XDG_CONFIG_HOME", homeDir, ".config"), appName),
		DataHome:   filepath.Join(xdgBase("XDG_DATA_HOME", homeDir, ".local", "share"), appName),
		StateHome:  filepath.Join(xdgBase("XDG_STATE_HOME", homeDir, ".local", "state"), appName),
	}, nil
}

func xdgBase(env, home string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigFile returns the path of the main configuration file.
func (d *XDGDirs) ConfigFile() string {
	return filepath.Join(d.ConfigHome, "config.toml")
}

// SchemaFile returns the path of the generated JSON schema.
func (d *XDGDirs) SchemaFile() string {
	return filepath.Join(d.ConfigHome, "config.schema.json")
}

// DatabaseFile returns the default icon cache database path. The cache can
// be rebuilt at any time, so it lives under XDG_STATE_HOME.
func (d *XDGDirs) DatabaseFile() string {
	return filepath.Join(d.StateHome, databaseName)
}

// CustomIconDir returns the default custom icon directory. Custom icons are
// user data and belong in XDG_DATA_HOME.
func (d *XDGDirs) CustomIconDir() string {
	return filepath.Join(d.DataHome, "custom_icons")
}

// LogDir returns the log directory under XDG_STATE_HOME.
func (d *XDGDirs) LogDir() string {
	return filepath.Join(d.StateHome, "logs")
}

// Ensure creates the directories if they don't exist.
func (d *XDGDirs) Ensure() error {
	for _, dir := range []string{d.ConfigHome, d.DataHome, d.StateHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
