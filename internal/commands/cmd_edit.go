package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/model"
)

type EditCmd struct {
	flags *Flags
	app   *App

	// flags
	text     string
	priority string
	due      string
	clearDue bool
	notes    string
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags, app *App) *EditCmd {
	return &EditCmd{flags: flags, app: app}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Change a task's text, priority, due date or notes",
		UsageText: "worklist edit <id> [--text t] [--priority p] [--due YYYY-MM-DD | --clear-due] [--notes n]",
		Description: `Only the given fields change. An empty --text leaves the task untouched
and reports an error.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "new task text",
				Destination: &cmd.text,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "new priority (high, medium, low)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "new due date as YYYY-MM-DD",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "clear-due",
				Usage:       "remove the due date",
				Destination: &cmd.clearDue,
			},
			&cli.StringFlag{
				Name:        "notes",
				Aliases:     []string{"n"},
				Usage:       "new notes (empty clears them)",
				Destination: &cmd.notes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if cmd.clearDue && c.IsSet("due") {
		return fmt.Errorf("--due and --clear-due are mutually exclusive")
	}

	d, err := cmd.app.Tasks.BeginEdit(id)
	if err != nil {
		return err
	}
	defer cmd.app.Tasks.CancelEdit(id)

	if c.IsSet("text") {
		d.Text = cmd.text
	}
	if c.IsSet("priority") {
		p, err := model.ParsePriority(cmd.priority)
		if err != nil {
			return err
		}
		d.Priority = p
	}
	if c.IsSet("due") {
		due, err := model.ParseDate(cmd.due)
		if err != nil {
			return err
		}
		d.DueDate = &due
	}
	if cmd.clearDue {
		d.DueDate = nil
	}
	if c.IsSet("notes") {
		d.Notes = cmd.notes
	}

	task, err := cmd.app.Tasks.CommitEdit(ctx, id, d)
	if err != nil {
		return fmt.Errorf("edit task: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Updated %d: %s\n", task.ID, task.Text)
	return nil
}
