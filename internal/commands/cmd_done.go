package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type DoneCmd struct {
	flags *Flags
	app   *App
}

// NewDoneCmd creates a new done command
func NewDoneCmd(flags *Flags, app *App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done and rm commands to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "done",
			Usage:     "Toggle a task between pending and completed",
			UsageText: "worklist done <id>",
			Action:    cmd.toggle,
		},
		&cli.Command{
			Name:      "rm",
			Usage:     "Delete a task",
			UsageText: "worklist rm <id>",
			Action:    cmd.remove,
		},
	)

	return app
}

func (cmd *DoneCmd) toggle(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := cmd.app.Tasks.ToggleComplete(ctx, id)
	if err != nil {
		return err
	}

	state := "pending"
	if task.Completed {
		state = "completed"
	}
	_, _ = fmt.Fprintf(c.Root().Writer, "%d %s: %s\n", task.ID, state, task.Text)
	return nil
}

func (cmd *DoneCmd) remove(ctx context.Context, c *cli.Command) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := cmd.app.Tasks.Delete(ctx, id); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Deleted %d\n", id)
	return nil
}
