package styles_test

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func purgeTargets() []entity.PurgeTarget {
	return []entity.PurgeTarget{
		{Type: entity.PurgeTargetConfig, Path: "/config", Exists: true, Size: 100},
		{Type: entity.PurgeTargetCustomIcons, Path: "/data/custom_icons", Exists: false},
		{Type: entity.PurgeTargetCacheDatabase, Path: "/state/icon-cache.sqlite", Exists: true, Size: 4096},
		{Type: entity.PurgeTargetLogs, Path: "/state/logs", Exists: true, Size: 10},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPurgeModel_DefaultSelectionSkipsConfig(t *testing.T) {
	m := styles.NewPurge(testTheme(), purgeTargets())

	assert.Equal(t, []entity.PurgeTargetType{entity.PurgeTargetCacheDatabase, entity.PurgeTargetLogs}, m.SelectedTypes())
	assert.Equal(t, int64(4106), m.SelectedSize())
	assert.Equal(t, 0, m.Cursor)
}

func TestPurgeModel_CursorSkipsMissingTargets(t *testing.T) {
	m := styles.NewPurge(testTheme(), purgeTargets())

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 2, m.Cursor)
	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 3, m.Cursor)
	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 0, m.Cursor, "cursor wraps around")
	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, 3, m.Cursor)
}

func TestPurgeModel_ToggleAndConfirm(t *testing.T) {
	m := styles.NewPurge(testTheme(), purgeTargets())

	m, _ = m.Update(keyMsg(" "))
	assert.Contains(t, m.SelectedTypes(), entity.PurgeTargetConfig)

	m, _ = m.Update(keyMsg("a"))
	assert.Empty(t, m.SelectedTypes(), "all existing were selected, toggle-all clears")
	m, _ = m.Update(keyMsg("a"))
	assert.Len(t, m.SelectedTypes(), 3)

	require.False(t, m.Done())
	m, _ = m.Update(keyMsg("enter"))
	assert.True(t, m.Confirmed)
	assert.True(t, m.Done())
}

func TestPurgeModel_Cancel(t *testing.T) {
	m := styles.NewPurge(testTheme(), purgeTargets())
	m, _ = m.Update(keyMsg("q"))
	assert.True(t, m.Canceled)
	assert.True(t, m.Done())
}

func TestPurgeModel_View(t *testing.T) {
	view := styles.NewPurge(testTheme(), purgeTargets()).View()
	assert.Contains(t, view, "Purge")
	assert.Contains(t, view, "/state/icon-cache.sqlite")
	assert.Contains(t, view, "(not found)")
	assert.Contains(t, view, "2 selected")
}

func TestRenderPurgeResults(t *testing.T) {
	out := styles.RenderPurgeResults(testTheme(), []entity.PurgeResult{
		{Target: entity.PurgeTarget{Path: "/state/logs"}, Success: true},
		{Target: entity.PurgeTarget{Path: "/config"}, Error: errors.New("permission denied")},
	})
	assert.Contains(t, out, "/state/logs")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "1 succeeded, 1 failed")
}
