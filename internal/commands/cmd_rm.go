package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/logging"
	"github.com/hay-kot/taskpad/internal/core/styles"
	"github.com/hay-kot/taskpad/internal/core/todo"
)

// ConfirmFunc asks the user whether p should be deleted.
type ConfirmFunc func(p todo.Positioned) (bool, error)

type RmCmd struct {
	flags   *Flags
	confirm ConfirmFunc

	// flags
	yes bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags, confirm: confirmDelete}
}

// WithConfirm replaces the interactive confirmation prompt.
func (cmd *RmCmd) WithConfirm(fn ConfirmFunc) *RmCmd {
	cmd.confirm = fn
	return cmd
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Aliases:   []string{"delete"},
		Usage:     "Delete an item",
		UsageText: "taskpad rm [--yes] <index>",
		Description: `Deletes the item at <index>. Items after it move down by one index.

Asks for confirmation unless --yes is given.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		ShellComplete: IndexCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "rm")

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	store := cmd.flags.Store
	p, err := store.GetPositioned(index)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if !cmd.yes {
		ok, err := cmd.confirm(p)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(c.Root().ErrWriter, "Delete cancelled")
			return nil
		}
	}

	if err := store.Delete(ctx, index); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Deleted %s\n", p.Item.DisplayName)
	return nil
}

func confirmDelete(p todo.Positioned) (bool, error) {
	if !isTerminal(os.Stdin) {
		return false, fmt.Errorf("refusing to delete without confirmation; pass --yes")
	}

	description := p.Item.Description
	if description == "" {
		description = "(no description)"
	}

	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", p.Item.DisplayName)).
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(styles.FormTheme()).Run()
	return ok, err
}
