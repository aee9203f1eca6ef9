package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/logging"
	"github.com/hay-kot/taskpad/internal/core/todo"
)

type EditCmd struct {
	flags *Flags

	// flags
	name        string
	description string
	priority    string
	status      string
	jsonOutput  bool
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Replace fields of an existing item",
		UsageText: "taskpad edit [--name <name>] [--description <text>] [--priority <level>] [--status <status>] <index>",
		Description: `Replaces the item at <index>. Fields without a flag keep their current value.
The creation date never changes.

Examples:
  taskpad edit --priority high 2
  taskpad edit --name "Call bank" --description "" 0`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "new item name",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "new item description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "new priority (low, medium, high)",
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "new status (unfinished, finished)",
				Destination: &cmd.status,
			},
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

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "edit")

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	store := cmd.flags.Store
	current, err := store.GetPositioned(index)
	if err != nil {
		return fmt.Errorf("edit item: %w", err)
	}

	item, err := cmd.apply(c, current.Item)
	if err != nil {
		return err
	}

	if err := store.Edit(ctx, todo.Positioned{Item: item, Index: index}); err != nil {
		return fmt.Errorf("edit item: %w", err)
	}

	updated, err := store.GetPositioned(index)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	return printItem(c, updated, cmd.jsonOutput)
}

// apply overlays the flags that were set onto item.
func (cmd *EditCmd) apply(c *cli.Command, item todo.Item) (todo.Item, error) {
	if c.IsSet("name") {
		item.DisplayName = cmd.name
	}
	if c.IsSet("description") {
		item.Description = cmd.description
	}
	if c.IsSet("priority") {
		p, err := todo.ParsePriority(cmd.priority)
		if err != nil {
			return todo.Item{}, err
		}
		item.Priority = p
	}
	if c.IsSet("status") {
		s, err := todo.ParseStatus(cmd.status)
		if err != nil {
			return todo.Item{}, err
		}
		item.Status = s
	}
	return item, nil
}
