package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/prompt"
)

type PromptCmd struct {
	flags *Flags
	app   *App

	// flags
	copy bool
}

// NewPromptCmd creates a new prompt command
func NewPromptCmd(flags *Flags, app *App) *PromptCmd {
	return &PromptCmd{flags: flags, app: app}
}

// Register adds the prompt command to the application
func (cmd *PromptCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prompt",
		Usage:     "Print a prompt asking an AI assistant to plan tasks",
		UsageText: "worklist prompt [id] [--copy]",
		Description: `Without an id the prompt asks for new tasks. With an id it asks for the
sub-tasks of that task. The reply can be fed to 'worklist import -'.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "copy to the clipboard instead of printing",
				Destination: &cmd.copy,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PromptCmd) run(ctx context.Context, c *cli.Command) error {
	text := prompt.GenerateNew()
	if c.Args().Len() > 0 {
		id, err := taskID(c)
		if err != nil {
			return err
		}
		task, err := cmd.app.Tasks.Get(id)
		if err != nil {
			return err
		}
		text = prompt.GenerateFromTask(task, prompt.Related(task, cmd.app.Tasks.Tasks()), cmd.app.Now())
	}

	if cmd.copy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		_, _ = fmt.Fprintln(c.Root().Writer, "Prompt copied to clipboard")
		return nil
	}

	_, _ = fmt.Fprint(c.Root().Writer, text)
	return nil
}
