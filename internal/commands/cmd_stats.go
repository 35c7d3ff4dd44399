package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/stats"
)

type StatsCmd struct {
	flags *Flags
	app   *App

	// flags
	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show completion statistics over all tasks",
		UsageText: "worklist stats [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	s := stats.Compute(cmd.app.Tasks.Tasks(), cmd.app.Now())
	out := c.Root().Writer

	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	_, _ = fmt.Fprintf(out, "Total:        %d\n", s.Total)
	_, _ = fmt.Fprintf(out, "Completed:    %d\n", s.Completed)
	_, _ = fmt.Fprintf(out, "Pending:      %d\n", s.Pending)
	_, _ = fmt.Fprintf(out, "Overdue:      %d\n", s.Overdue)
	_, _ = fmt.Fprintf(out, "Completion:   %.0f%%\n", s.CompletionRate)
	_, _ = fmt.Fprintf(out, "Avg. days:    %.1f\n", s.AvgCompletionDays)
	_, _ = fmt.Fprintf(out, "Priorities:   high %d, medium %d, low %d\n", s.Priorities.High, s.Priorities.Medium, s.Priorities.Low)
	return nil
}
