package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/todo"
	"github.com/hay-kot/taskpad/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags

	jsonOutput bool
}

// NewShowCmd creates a new show command.
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application.
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a single item",
		UsageText: "taskpad show [--json] <index>",
		Description: `Prints every field of the item at <index>, including its description.

Descriptions are rendered as markdown on a terminal unless view.markdown is false.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		ShellComplete: IndexCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	p, err := cmd.flags.Store.GetPositioned(index)
	if err != nil {
		return fmt.Errorf("show item: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteIndent(out, p)
	}

	markdown := cmd.flags.Config.View.RenderMarkdown() && isTerminal(out)
	return renderDetail(out, p, markdown, terminalSize(out))
}

// printItem writes the one-line summary of p, or a JSON line when jsonOutput is set.
func printItem(c *cli.Command, p todo.Positioned, jsonOutput bool) error {
	out := c.Root().Writer
	if jsonOutput {
		return iojson.WriteLine(out, p)
	}
	_, _ = fmt.Fprintln(out, renderRow(p, false))
	return nil
}

