package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/iconscope/internal/domain/entity"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderPaths renders the files and directories iconscope uses.
func (r *ConfigRenderer) RenderPaths(configFile, customDir, dbFile, logDir string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	row := func(icon, label, path string) string {
		return fmt.Sprintf("  %s %s %s", iconStyle.Render(icon), r.theme.Normal.Render(padRight(label, 13)), r.theme.Subtle.Render(path))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row(IconConfig, "Config", configFile),
		row(IconImage, "Custom icons", customDir),
		row(IconDatabase, "Icon cache", dbFile),
		row(IconLogs, "Logs", logDir),
	)
}

// RenderKeys renders configuration keys as a table, one row per key.
func (r *ConfigRenderer) RenderKeys(keys []entity.ConfigKeyInfo) string {
	if len(keys) == 0 {
		return r.theme.Subtle.Render("  no matching keys")
	}
	t := NewStyledTable(r.theme, "Key", "Type", "Default", "Allowed", "Description")
	for _, k := range keys {
		allowed := k.Range
		if len(k.Values) > 0 {
			allowed = strings.Join(k.Values, "|")
		}
		def := k.Default
		if def == "" {
			def = "-"
		}
		t.Row(k.Key, k.Type, def, allowed, k.Description)
	}
	return t.Render()
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	return fmt.Sprintf("\n  %s %s\n", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}
