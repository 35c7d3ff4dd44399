package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/ui"
	"github.com/nissyi-gh/worklist/internal/view"
)

type TuiCmd struct {
	flags *Flags
	app   *App

	// flags
	tab string
}

// NewTuiCmd creates the interactive command
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Flags returns the flags the TUI accepts on the root command.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tab",
			Usage:       "initial tab (all, pending, completed)",
			Value:       "all",
			Destination: &cmd.tab,
		},
	}
}

// Run starts the TUI and blocks until it exits.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	m := ui.NewModel(ctx, cmd.app.Tasks, cmd.app.Query, ui.WithTab(view.ParseTab(cmd.tab)))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
