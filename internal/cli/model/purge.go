// Package model holds Bubble Tea models for interactive CLI commands.
package model

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

// PurgeModel wraps styles.PurgeModel for standalone CLI use.
type PurgeModel struct {
	selector styles.PurgeModel
	purgeUC  *usecase.PurgeDataUseCase

	loading bool
	purging bool
	done    bool

	results *usecase.PurgeOutput
	info    string
	err     error

	theme *styles.Theme
	ctx   context.Context
}

// NewPurgeModel creates a new purge command model.
func NewPurgeModel(ctx context.Context, theme *styles.Theme, purgeUC *usecase.PurgeDataUseCase) PurgeModel {
	return PurgeModel{
		theme:   theme,
		purgeUC: purgeUC,
		loading: true,
		ctx:     ctx,
	}
}

type purgeTargetsLoadedMsg struct {
	targets []entity.PurgeTarget
	err     error
}

type purgeCompleteMsg struct {
	output *usecase.PurgeOutput
	err    error
}

// Init implements tea.Model.
func (m PurgeModel) Init() tea.Cmd {
	return m.loadTargets()
}

func (m PurgeModel) loadTargets() tea.Cmd {
	return func() tea.Msg {
		targets, err := m.purgeUC.GetPurgeTargets(m.ctx)
		return purgeTargetsLoadedMsg{targets: targets, err: err}
	}
}

// Update implements tea.Model.
func (m PurgeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case purgeTargetsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, nil
		}
		m.selector = styles.NewPurge(m.theme, msg.targets)
		return m, nil
	case purgeCompleteMsg:
		m.purging = false
		m.done = true
		m.results = msg.output
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
	}

	if m.loading || m.purging {
		return m, nil
	}

	return m.updateSelector(msg)
}

func (m PurgeModel) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	selector, cmd := m.selector.Update(msg)
	m.selector = selector

	if !m.selector.Done() {
		return m, cmd
	}

	if m.selector.Canceled {
		return m, tea.Quit
	}

	targetTypes := m.selector.SelectedTypes()
	if len(targetTypes) == 0 {
		m.done = true
		m.info = "Nothing selected"
		return m, nil
	}
	m.purging = true
	return m, m.performPurge(targetTypes)
}

func (m PurgeModel) performPurge(targetTypes []entity.PurgeTargetType) tea.Cmd {
	return func() tea.Msg {
		out, err := m.purgeUC.Execute(m.ctx, usecase.PurgeInput{TargetTypes: targetTypes})
		return purgeCompleteMsg{output: out, err: err}
	}
}

// Err returns the error that ended the session, if any.
func (m PurgeModel) Err() error {
	return m.err
}

// View implements tea.Model.
func (m PurgeModel) View() string {
	t := m.theme

	if m.loading {
		return t.Box.Render(styles.NewLoading(t, "Scanning purge targets...").View())
	}
	if m.purging {
		return t.Box.Render(styles.NewLoading(t, "Purging...").View())
	}

	if m.done {
		exit := t.Subtle.Render("Press any key to exit")
		switch {
		case m.info != "":
			return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, t.Subtle.Render(m.info), "", exit))
		case m.results == nil && m.err != nil:
			return t.Box.Render(lipgloss.JoinVertical(lipgloss.Left, t.ErrorStyle.Render("Error: "+m.err.Error()), "", exit))
		case m.results != nil:
			return t.Box.Render(lipgloss.JoinVertical(
				lipgloss.Left,
				t.Title.Render("Purge complete"),
				styles.RenderPurgeResults(t, m.results.Results),
				"",
				exit,
			))
		default:
			return t.Box.Render(fmt.Sprintf("%s\n\n%s", t.Subtle.Render("Nothing to do"), exit))
		}
	}

	return m.selector.View()
}

var _ tea.Model = (*PurgeModel)(nil)
