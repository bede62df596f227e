package xdg

import (
	"errors"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/infrastructure/config"
)

// ErrNoDirs is returned when the adapter was built without XDG directories.
var ErrNoDirs = errors.New("xdg directories not configured")

// Adapter implements port.XDGPaths from the XDG directories and the loaded
// configuration. Paths set in the configuration win over the XDG defaults.
type Adapter struct {
	dirs *config.XDGDirs
	cfg  *config.Config
}

// New creates a new XDG paths adapter. cfg may be nil.
func New(dirs *config.XDGDirs, cfg *config.Config) *Adapter {
	return &Adapter{dirs: dirs, cfg: cfg}
}

func (a *Adapter) ConfigDir() (string, error) {
	if a.dirs == nil {
		return "", ErrNoDirs
	}
	return a.dirs.ConfigHome, nil
}

func (a *Adapter) CustomIconDir() (string, error) {
	if a.cfg != nil && a.cfg.Icons.CustomDir != "" {
		return a.cfg.Icons.CustomDir, nil
	}
	if a.dirs == nil {
		return "", ErrNoDirs
	}
	return a.dirs.CustomIconDir(), nil
}

func (a *Adapter) DatabaseFile() (string, error) {
	if a.cfg != nil && a.cfg.Cache.DatabasePath != "" {
		return a.cfg.Cache.DatabasePath, nil
	}
	if a.dirs == nil {
		return "", ErrNoDirs
	}
	return a.dirs.DatabaseFile(), nil
}

func (a *Adapter) LogDir() (string, error) {
	if a.dirs == nil {
		return "", ErrNoDirs
	}
	return a.dirs.LogDir(), nil
}

var _ port.XDGPaths = (*Adapter)(nil)
