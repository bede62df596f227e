package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

// InventoryModel shows a spinner while an inventory run resolves.
type InventoryModel struct {
	loading styles.LoadingModel
	uc      *usecase.ResolveInventoryUseCase
	reqs    []entity.IconRequest

	ctx    context.Context
	cancel context.CancelFunc

	out *usecase.InventoryOutput
	err error
}

type inventoryDoneMsg struct {
	out *usecase.InventoryOutput
	err error
}

// NewInventoryModel prepares a run over reqs. Ctrl+C cancels it.
func NewInventoryModel(ctx context.Context, theme *styles.Theme, uc *usecase.ResolveInventoryUseCase, reqs []entity.IconRequest) *InventoryModel {
	ctx, cancel := context.WithCancel(ctx)
	return &InventoryModel{
		loading: styles.NewLoading(theme, fmt.Sprintf("Resolving %d programs...", len(reqs))),
		uc:      uc,
		reqs:    reqs,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m *InventoryModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Spinner.Tick, m.resolve())
}

func (m *InventoryModel) resolve() tea.Cmd {
	return func() tea.Msg {
		out, err := m.uc.Execute(m.ctx, m.reqs)
		return inventoryDoneMsg{out: out, err: err}
	}
}

// Update implements tea.Model.
func (m *InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inventoryDoneMsg:
		m.cancel()
		m.out, m.err = msg.out, msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.err = context.Canceled
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading.Spinner, cmd = m.loading.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *InventoryModel) View() string {
	if m.out != nil || m.err != nil {
		return ""
	}
	return m.loading.View() + "\n"
}

// Result returns the run output once the program has quit.
func (m *InventoryModel) Result() (*usecase.InventoryOutput, error) {
	if m.out == nil && m.err == nil {
		return nil, fmt.Errorf("inventory did not complete")
	}
	return m.out, m.err
}
