package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nissyi-gh/worklist/internal/export"
	"github.com/nissyi-gh/worklist/internal/importer"
)

type TransferCmd struct {
	flags *Flags
	app   *App

	// flags
	format string
	out    string
}

// NewTransferCmd creates the import and export commands
func NewTransferCmd(flags *Flags, app *App) *TransferCmd {
	return &TransferCmd{flags: flags, app: app}
}

// Register adds the import and export commands to the application
func (cmd *TransferCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "import",
			Usage:     "Add tasks from a YAML document",
			UsageText: "worklist import <file.yaml | ->",
			Description: `Reads tasks in the format produced by 'worklist prompt'. Children are
added after their parent as "Parent / Child". Use - to read stdin.`,
			Action: cmd.runImport,
		},
		&cli.Command{
			Name:      "export",
			Usage:     "Write all tasks as json, yaml, csv or pdf",
			UsageText: "worklist export [--format json|yaml|csv|pdf] [--out file]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "format",
					Aliases:     []string{"f"},
					Usage:       "output format (" + strings.Join(export.Formats, ", ") + ")",
					Value:       "json",
					Destination: &cmd.format,
				},
				&cli.StringFlag{
					Name:        "out",
					Aliases:     []string{"o"},
					Usage:       "output file (defaults to stdout)",
					Destination: &cmd.out,
				},
			},
			Action: cmd.runExport,
		},
	)

	return app
}

func (cmd *TransferCmd) runImport(ctx context.Context, c *cli.Command) error {
	src := c.Args().First()
	if src == "" {
		return fmt.Errorf("input file is required (use - for stdin)")
	}

	var (
		data []byte
		err  error
	)
	if src == "-" {
		r := c.Root().Reader
		if r == nil {
			r = os.Stdin
		}
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	n, err := importer.Import(ctx, cmd.app.Tasks, string(data))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Imported %d tasks\n", n)
	return nil
}

func (cmd *TransferCmd) runExport(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer
	if cmd.out != "" {
		f, err := os.Create(cmd.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", cmd.out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := export.Write(w, cmd.format, cmd.app.Tasks.Tasks(), cmd.app.Now()); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
