package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/tasks"
)

type AddCmd struct {
	flags *Flags
	app   *App

	// flags
	priority string
	due      string
	notes    string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: "worklist add [--priority high|medium|low] [--due YYYY-MM-DD] [--notes text] <text...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "task priority (high, medium, low)",
				Value:       string(model.PriorityMedium),
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "due date as YYYY-MM-DD",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "notes",
				Aliases:     []string{"n"},
				Usage:       "free-form notes",
				Destination: &cmd.notes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	priority, err := model.ParsePriority(cmd.priority)
	if err != nil {
		return err
	}

	d := tasks.Draft{
		Text:     strings.Join(c.Args().Slice(), " "),
		Priority: priority,
		Notes:    cmd.notes,
	}
	if cmd.due != "" {
		due, err := model.ParseDate(cmd.due)
		if err != nil {
			return err
		}
		d.DueDate = &due
	}

	task, err := cmd.app.Tasks.Add(ctx, d)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Added %d: %s\n", task.ID, task.Text)
	return nil
}
