package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/view"
)

type LsCmd struct {
	flags *Flags
	app   *App

	// flags
	search     string
	sort       string
	direction  string
	status     string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks",
		UsageText: "worklist ls [--search q] [--sort key] [--direction asc|desc] [--status all|pending|completed] [--json]",
		Description: `Lists tasks filtered by --search (text and notes, case-insensitive) and
ordered by --sort (createdAt, dueDate, priority, alphabetical). Sort and
direction default to the view section of the config file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"q"},
				Usage:       "only tasks whose text or notes contain this",
				Destination: &cmd.search,
			},
			&cli.StringFlag{
				Name:        "sort",
				Aliases:     []string{"s"},
				Usage:       "sort key (createdAt, dueDate, priority, alphabetical)",
				Destination: &cmd.sort,
			},
			&cli.StringFlag{
				Name:        "direction",
				Usage:       "sort direction (asc, desc)",
				Destination: &cmd.direction,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "which tasks to show (all, pending, completed)",
				Value:       "all",
				Destination: &cmd.status,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as a JSON array",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	q := cmd.app.Query
	q.Search = cmd.search
	if cmd.sort != "" {
		key, err := view.ParseSortKey(cmd.sort)
		if err != nil {
			return err
		}
		q.Sort = key
	}
	if cmd.direction != "" {
		dir, err := view.ParseDirection(cmd.direction)
		if err != nil {
			return err
		}
		q.Direction = dir
	}

	list := view.Derive(cmd.app.Tasks.Tasks(), q).Select(view.ParseTab(cmd.status))
	out := c.Root().Writer

	if cmd.jsonOutput {
		if list == nil {
			list = []model.Task{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		return nil
	}

	if len(list) == 0 {
		fmt.Fprintf(os.Stderr, "No tasks found\n")
		return nil
	}

	now := cmd.app.Now()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tDUE\tTEXT")
	for _, t := range list {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := "-"
		if status, ok := t.DueStatus(now); ok {
			due = fmt.Sprintf("%s (%s)", t.DueDate, status)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, done, t.Priority, due, t.Text)
	}
	return w.Flush()
}
