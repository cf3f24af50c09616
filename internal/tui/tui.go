package tui

import (
	"context"

	"blocktree/internal/mutate"

	tea "github.com/charmbracelet/bubbletea"
)

// Run browses the orchestrator's blocks until the user quits.
func Run(ctx context.Context, o *mutate.Orchestrator) error {
	m := newBrowseModel(ctx, o)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
