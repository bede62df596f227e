package config

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/iconscope/internal/application/port"
	"github.com/bnema/iconscope/internal/domain/entity"
	"github.com/bnema/iconscope/internal/logging"
)

// Watch starts watching the config file and reloads it on change. An
// invalid edit is logged and the previous configuration stays in force.
func (m *Manager) Watch(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	log := logging.FromContext(ctx).With().Str("component", "config-watcher").Logger()
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("fsnotify config change detected")

		m.mu.Lock()
		if err := m.reload(true); err != nil {
			log.Warn().Err(err).Msg("failed to reload config")
			m.mu.Unlock()
			return
		}
		m.notifyCallbacksLocked()
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// notifyCallbacksLocked copies callbacks and config, releases lock, then notifies.
// Must be called with m.mu held for write.
func (m *Manager) notifyCallbacksLocked() {
	configCopy := *m.config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(&configCopy)
	}
}

// OnConfigChange registers a callback run after every successful reload.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// ApplyTTLs returns a change callback that pushes the configured tier
// lifetimes into a live cache store.
func ApplyTTLs(ctx context.Context, store port.IconCacheStore) func(*Config) {
	log := logging.FromContext(ctx)
	return func(c *Config) {
		store.SetTTL(entity.CacheTierLocal, c.Icons.LocalTTL())
		store.SetTTL(entity.CacheTierFallback, c.Icons.FallbackTTL())
		log.Info().
			Dur("local_ttl", c.Icons.LocalTTL()).
			Dur("fallback_ttl", c.Icons.FallbackTTL()).
			Msg("icon cache TTLs updated")
	}
}
