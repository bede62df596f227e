package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/domain/entity"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("ICONSCOPE_ICONS_REMOTE_ENABLED", "false")
	t.Setenv("ICONSCOPE_OTEL_ENDPOINT", "")
	t.Setenv("ICONSCOPE_LOG_LEVEL", "error")
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if app != nil {
		_ = app.Close()
		app = nil
	}
	return out.String(), err
}

func TestTierArg(t *testing.T) {
	tier, err := tierArg(nil)
	require.NoError(t, err)
	assert.Equal(t, entity.CacheTierBoth, tier)

	tier, err = tierArg([]string{"Fallback"})
	require.NoError(t, err)
	assert.Equal(t, entity.CacheTierFallback, tier)

	_, err = tierArg([]string{"disk"})
	require.Error(t, err)
}

func TestManDir_HonorsXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/srv/share")
	dir, err := manDir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/share/man/man1", dir)
}

func TestCommands_Registered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"resolve", "inventory", "cache", "custom", "config", "purge", "gen-docs", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestConfigSchema_PrintsJSON(t *testing.T) {
	isolateXDG(t)
	out, err := run(t, "config", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema, "properties")
}

func TestResolve_GenericFallbackEndToEnd(t *testing.T) {
	root := isolateXDG(t)
	outFile := filepath.Join(root, "anydesk.svg")

	out, err := run(t, "resolve", "AnyDesk", "--path", `C:\Program Files (x86)\AnyDesk\AnyDesk.exe`, "--json", "--output", outFile)
	require.NoError(t, err)

	var icon entity.ResolvedIcon
	require.NoError(t, json.Unmarshal([]byte(out), &icon))
	assert.Equal(t, entity.ProvenanceGeneric, icon.Provenance)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = os.Stat(filepath.Join(root, "config", "iconscope", "config.toml"))
	require.NoError(t, err, "first run writes the default config")
}

func TestPurge_NamedTarget(t *testing.T) {
	root := isolateXDG(t)
	logDir := filepath.Join(root, "state", "iconscope", "logs")
	require.NoError(t, os.MkdirAll(logDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "iconscope.log"), []byte("{}"), 0o644))

	_, err := run(t, "purge", "logs")
	require.NoError(t, err)

	_, err = os.Stat(logDir)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigKeys_FilteredJSON(t *testing.T) {
	isolateXDG(t)
	t.Cleanup(func() {
		configKeysSection = ""
		configKeysJSON = false
	})

	out, err := run(t, "config", "keys", "--section", "cache", "--json")
	require.NoError(t, err)

	var keys []entity.ConfigKeyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	require.NotEmpty(t, keys)
	for _, k := range keys {
		assert.Equal(t, "Cache", k.Section)
	}
}
