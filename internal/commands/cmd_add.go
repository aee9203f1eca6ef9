package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/logging"
	"github.com/hay-kot/taskpad/internal/core/styles"
	"github.com/hay-kot/taskpad/internal/core/todo"
	"github.com/hay-kot/taskpad/pkg/iojson"
)

type AddCmd struct {
	flags *Flags

	// flags
	name        string
	description string
	priority    string
	jsonOutput  bool
	input       iojson.FileReader[todo.Item]
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Aliases:   []string{"new"},
		Usage:     "Add a new item",
		UsageText: "taskpad add [--name <name>] [--description <text>] [--priority <level>]",
		Description: `Appends a new unfinished item to the end of the list.

Without --name an interactive form is shown when stdin is a terminal.
Names and descriptions may not contain "|". Lists shorten names longer
than 20 characters.

Examples:
  taskpad add --name "Pay rent" --priority high
  echo '{"display_name":"Pay rent","priority":"HIGH"}' | taskpad add --file -`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "item name",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "item description",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority (low, medium, high)",
				Value:       "low",
				Destination: &cmd.priority,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			cmd.input.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "add")

	item, err := cmd.buildItem(c)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	store := cmd.flags.Store
	if err := store.Write(ctx, item); err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	p, err := store.GetPositioned(store.Len() - 1)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	return printItem(c, p, cmd.jsonOutput)
}

// buildItem assembles the new item from --file, flags, or the interactive form.
func (cmd *AddCmd) buildItem(c *cli.Command) (todo.Item, error) {
	if cmd.input.IsSet() {
		cmd.input.SetStdin(c.Root().Reader)
		item, err := cmd.input.Read()
		if err != nil {
			return todo.Item{}, err
		}
		if item.Priority == "" {
			item.Priority = todo.PriorityLow
		}
		if item.Status == "" {
			item.Status = todo.StatusUnfinished
		}
		return item, nil
	}

	priority, err := todo.ParsePriority(cmd.priority)
	if err != nil {
		return todo.Item{}, err
	}

	if cmd.name == "" {
		if !isTerminal(os.Stdin) {
			return todo.Item{}, fmt.Errorf("name is required")
		}
		if err := cmd.runForm(&priority); err != nil {
			return todo.Item{}, err
		}
	}

	return todo.New(cmd.name, cmd.description, priority), nil
}

func (cmd *AddCmd) runForm(priority *todo.Priority) error {
	options := make([]huh.Option[todo.Priority], 0, len(todo.Priorities()))
	for _, p := range todo.Priorities() {
		options = append(options, huh.NewOption(string(p), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description(fmt.Sprintf("Lists show the first %d characters", todo.MaxNameLength)).
				Validate(validateName).
				Value(&cmd.name),
			huh.NewText().
				Title("Description").
				Validate(validateText).
				Value(&cmd.description),
			huh.NewSelect[todo.Priority]().
				Title("Priority").
				Options(options...).
				Value(priority),
		),
	).WithTheme(styles.FormTheme()).Run()
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return validateText(s)
}

func validateText(s string) error {
	if !todo.CheckIfAllowed(s) {
		return fmt.Errorf("must not contain %q", todo.Delimiter)
	}
	return nil
}
