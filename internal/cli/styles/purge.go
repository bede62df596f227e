package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/iconscope/internal/domain/entity"
)

// PurgeItem wraps entity.PurgeTarget with selection state for the UI.
type PurgeItem struct {
	entity.PurgeTarget
	Selected bool
}

// PurgeModel is the multi-select purge modal.
type PurgeModel struct {
	Items     []PurgeItem
	Cursor    int
	Confirmed bool
	Canceled  bool
	theme     *Theme
}

// PurgeKeyMap defines keybindings for purge modal.
type PurgeKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

// DefaultPurgeKeyMap returns default keybindings.
func DefaultPurgeKeyMap() PurgeKeyMap {
	return PurgeKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "cancel")),
	}
}

// NewPurge creates a new purge modal with the given targets. Existing
// targets start selected, except the config directory.
func NewPurge(theme *Theme, targets []entity.PurgeTarget) PurgeModel {
	items := make([]PurgeItem, 0, len(targets))
	for _, t := range targets {
		items = append(items, PurgeItem{PurgeTarget: t, Selected: t.Exists && t.Type != entity.PurgeTargetConfig})
	}

	m := PurgeModel{Items: items, theme: theme}
	m.Cursor = m.firstSelectableIndex()
	return m
}

// Init implements tea.Model.
func (m PurgeModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m PurgeModel) Update(msg tea.Msg) (PurgeModel, tea.Cmd) {
	keys := DefaultPurgeKeyMap()

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, keys.Toggle):
			m.toggleCurrent()
		case key.Matches(msg, keys.ToggleAll):
			m.toggleAll()
		case key.Matches(msg, keys.Confirm):
			m.Confirmed = true
		case key.Matches(msg, keys.Cancel):
			m.Canceled = true
		}
	}

	return m, nil
}

// moveCursor skips targets that do not exist and wraps around.
func (m *PurgeModel) moveCursor(delta int) {
	var positions []int
	for i, it := range m.Items {
		if it.Exists {
			positions = append(positions, i)
		}
	}
	if len(positions) == 0 {
		return
	}

	current := 0
	for i, p := range positions {
		if p == m.Cursor {
			current = i
			break
		}
	}
	m.Cursor = positions[(current+delta+len(positions))%len(positions)]
}

func (m PurgeModel) firstSelectableIndex() int {
	for i, it := range m.Items {
		if it.Exists {
			return i
		}
	}
	return 0
}

func (m *PurgeModel) toggleCurrent() {
	if m.Cursor < 0 || m.Cursor >= len(m.Items) {
		return
	}
	if !m.Items[m.Cursor].Exists {
		return
	}
	m.Items[m.Cursor].Selected = !m.Items[m.Cursor].Selected
}

func (m *PurgeModel) toggleAll() {
	anyUnselected := false
	for _, it := range m.Items {
		if it.Exists && !it.Selected {
			anyUnselected = true
			break
		}
	}
	for i := range m.Items {
		if m.Items[i].Exists {
			m.Items[i].Selected = anyUnselected
		}
	}
}

// View renders the modal.
func (m PurgeModel) View() string {
	t := m.theme

	header := t.Title.Render(fmt.Sprintf("%s Purge", IconTrash))
	subtitle := t.Subtle.Render("Select items to remove")

	rows := make([]string, 0, len(m.Items))
	for i, it := range m.Items {
		rows = append(rows, m.renderItemRow(i, it))
	}

	var summary string
	if n := m.SelectedCount(); n > 0 {
		summary = lipgloss.JoinHorizontal(
			lipgloss.Left,
			t.WarningStyle.Render(IconWarning),
			" ",
			t.Subtle.Render(fmt.Sprintf("%d selected (%s)", n, FormatSize(m.SelectedSize()))),
		)
	} else {
		summary = t.Subtle.Render("0 selected")
	}

	help := t.Subtle.Render("↑/↓ j/k move • space toggle • a all • enter • esc")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		subtitle,
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		summary,
		"",
		help,
	)
	return t.Box.Render(content)
}

func (m PurgeModel) renderItemRow(i int, it PurgeItem) string {
	t := m.theme

	cursor := "  "
	if i == m.Cursor {
		cursor = IconCursor + " "
	}

	checkbox := IconCheckboxEmpty
	if it.Selected {
		checkbox = IconCheckboxChecked
	}

	pathStyle := t.Subtle
	labelStyle := t.Normal
	accent := lipgloss.NewStyle().Foreground(t.Accent)
	checkboxStyle, cursorStyle := accent, accent

	tail := t.Subtle.Render(FormatSize(it.Size))
	if !it.Exists {
		checkbox = IconCheckboxEmpty
		checkboxStyle, cursorStyle, labelStyle = t.Subtle, t.Subtle, t.Subtle
		tail = t.Subtle.Render("(not found)")
	}

	const labelPadWidth = 16
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		cursorStyle.Render(cursor),
		checkboxStyle.Render(checkbox),
		" ",
		labelStyle.Render(padRight(PurgeLabel(it.Type), labelPadWidth)),
		pathStyle.Render(it.Path),
		" ",
		tail,
	)
}

// PurgeLabel returns the icon and display name of a target type.
func PurgeLabel(t entity.PurgeTargetType) string {
	switch t {
	case entity.PurgeTargetConfig:
		return fmt.Sprintf("%s Config", IconConfig)
	case entity.PurgeTargetCustomIcons:
		return fmt.Sprintf("%s Custom icons", IconImage)
	case entity.PurgeTargetCacheDatabase:
		return fmt.Sprintf("%s Icon cache", IconDatabase)
	case entity.PurgeTargetLogs:
		return fmt.Sprintf("%s Logs", IconLogs)
	default:
		return "Item"
	}
}

func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// Done returns true if the modal is complete.
func (m PurgeModel) Done() bool {
	return m.Confirmed || m.Canceled
}

// SelectedTypes returns the selected target types in display order.
func (m PurgeModel) SelectedTypes() []entity.PurgeTargetType {
	var out []entity.PurgeTargetType
	for _, it := range m.Items {
		if it.Exists && it.Selected {
			out = append(out, it.Type)
		}
	}
	return out
}

// SelectedCount returns the number of selected items.
func (m PurgeModel) SelectedCount() int {
	return len(m.SelectedTypes())
}

// SelectedSize returns the total size of selected items.
func (m PurgeModel) SelectedSize() int64 {
	var total int64
	for _, it := range m.Items {
		if it.Exists && it.Selected {
			total += it.Size
		}
	}
	return total
}

// RenderPurgeResults renders the outcome of a purge.
func RenderPurgeResults(t *Theme, results []entity.PurgeResult) string {
	lines := make([]string, 0, len(results)+2)
	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Success {
			lines = append(lines, fmt.Sprintf("%s %s", t.SuccessStyle.Render(IconCheck), r.Target.Path))
			succeeded++
		} else {
			lines = append(lines, fmt.Sprintf("%s %s: %v", t.ErrorStyle.Render(IconX), r.Target.Path, r.Error))
			failed++
		}
	}
	lines = append(lines, "", t.Subtle.Render(fmt.Sprintf("%d succeeded, %d failed", succeeded, failed)))
	return strings.Join(lines, "\n")
}
