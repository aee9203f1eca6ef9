package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/logging"
)

type ToggleCmd struct {
	flags *Flags

	jsonOutput bool
}

// NewToggleCmd creates a new toggle command.
func NewToggleCmd(flags *Flags) *ToggleCmd {
	return &ToggleCmd{flags: flags}
}

// Register adds the toggle command to the application.
func (cmd *ToggleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "toggle",
		Aliases:   []string{"done"},
		Usage:     "Toggle an item between unfinished and finished",
		UsageText: "taskpad toggle [--json] <index>",
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

func (cmd *ToggleCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "toggle")

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	if err := cmd.flags.Store.ToggleStatus(ctx, index); err != nil {
		return fmt.Errorf("toggle item: %w", err)
	}

	p, err := cmd.flags.Store.GetPositioned(index)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	return printItem(c, p, cmd.jsonOutput)
}
