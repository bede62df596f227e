package model

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/iconscope/internal/application/usecase"
	"github.com/bnema/iconscope/internal/cli/styles"
)

func TestInventoryModel_CompletesAndQuits(t *testing.T) {
	uc := usecase.NewResolveInventoryUseCase(nil, 1)
	m := NewInventoryModel(context.Background(), styles.NewTheme(), uc, nil)
	assert.Contains(t, m.View(), "Resolving 0 programs")

	_, err := m.Result()
	require.Error(t, err, "no result before the run completes")

	done := m.resolve()()
	_, cmd := m.Update(done)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	out, err := m.Result()
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Empty(t, m.View())
}

func TestInventoryModel_CtrlCCancels(t *testing.T) {
	uc := usecase.NewResolveInventoryUseCase(nil, 1)
	m := NewInventoryModel(context.Background(), styles.NewTheme(), uc, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	_, err := m.Result()
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, m.ctx.Err(), context.Canceled)
}
