package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaProvider_CoversEveryDefault(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	keys := NewSchemaProvider().GetSchema()
	require.NotEmpty(t, keys)

	documented := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k.Section, k.Key)
		assert.NotEmpty(t, k.Description, k.Key)
		assert.False(t, documented[k.Key], "duplicate key %s", k.Key)
		documented[k.Key] = true
	}

	for _, key := range mgr.viper.AllKeys() {
		assert.True(t, documented[key], "undocumented key %s", key)
	}
	assert.Len(t, documented, len(mgr.viper.AllKeys()))
}

func TestSchemaProvider_DefaultsMatchConfig(t *testing.T) {
	byKey := make(map[string]string)
	for _, k := range NewSchemaProvider().GetSchema() {
		byKey[k.Key] = k.Default
	}

	assert.Equal(t, "24", byKey["icons.local_ttl_hours"])
	assert.Equal(t, "7", byKey["icons.fallback_ttl_days"])
	assert.Equal(t, "true", byKey["icons.remote_enabled"])
	assert.Equal(t, "info", byKey["logging.level"])
	assert.Equal(t, "8", byKey["inventory.concurrency"])
}
