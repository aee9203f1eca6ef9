package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/core/analytics"
	"github.com/hay-kot/taskpad/internal/core/logging"
	"github.com/hay-kot/taskpad/internal/store/linefile"
	"github.com/hay-kot/taskpad/pkg/iojson"
	"github.com/hay-kot/taskpad/pkg/maybe"
)

type LsCmd struct {
	flags *Flags

	// flags
	sortMode   string
	filterMode string
	match      string
	selectIdx  int
	jsonOutput bool
	watch      bool
}

const clearScreen = "\033[H\033[2J"

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List items",
		UsageText: "taskpad ls [--sort <mode>] [--filter <mode>] [--match <glob>] [--select <index>] [--json] [--watch]",
		Description: `Displays items sorted and then filtered. Each row shows the item index,
which is what show, edit, toggle, and rm expect.

Sort modes:   none, date, priority, name
Filter modes: none, unfinished, finished, low, medium, high

Defaults come from view.sort and view.filter in the config file.

Examples:
  taskpad ls
  taskpad ls --sort priority --filter unfinished
  taskpad ls --match "*report*" --json
  taskpad ls --watch`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "sort",
				Aliases:     []string{"s"},
				Usage:       "sort mode (none, date, priority, name)",
				Destination: &cmd.sortMode,
			},
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "filter mode (none, unfinished, finished, low, medium, high)",
				Destination: &cmd.filterMode,
			},
			&cli.StringFlag{
				Name:        "match",
				Aliases:     []string{"m"},
				Usage:       "only show items whose name matches the glob",
				Destination: &cmd.match,
			},
			&cli.IntFlag{
				Name:        "select",
				Usage:       "highlight the item at this index",
				Destination: &cmd.selectIdx,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "re-render whenever the items file changes",
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
	})

	return app
}

// Run lists items using the configured sort and filter modes.
func (cmd *LsCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	ctx = logging.WithCommand(ctx, "ls")

	sortMode, filterMode, err := cmd.modes()
	if err != nil {
		return err
	}

	if cmd.watch {
		return cmd.runWatch(ctx, c, sortMode, filterMode)
	}

	return cmd.render(ctx, c, sortMode, filterMode)
}

func (cmd *LsCmd) render(ctx context.Context, c *cli.Command, sortMode analytics.SortMode, filterMode analytics.FilterMode) error {
	view := analytics.View(sortMode, filterMode, cmd.flags.Store.PositionedList())
	view, err := analytics.MatchName(cmd.match, view)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str("sort", string(sortMode)).
		Str("filter", string(filterMode)).
		Int("shown", len(view)).
		Msg("built view")

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, p := range view {
			if err := iojson.WriteLine(out, p); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	if len(view) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No items found")
		return nil
	}

	selection := maybe.None[int]()
	if c.IsSet("select") {
		selection.Set(cmd.selectIdx)
	}
	if idx, err := selection.Get(); err == nil && !analytics.Contains(view, idx) {
		_, _ = fmt.Fprintf(c.Root().ErrWriter, "Item %d is hidden by the current view\n", idx)
		selection.Clear()
	}

	renderList(out, view, selection)
	return nil
}

// runWatch renders the view, then reloads and renders again each time the
// items file changes, until interrupted.
func (cmd *LsCmd) runWatch(ctx context.Context, c *cli.Command, sortMode analytics.SortMode, filterMode analytics.FilterMode) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := linefile.NewWatcher(cmd.flags.Config.ItemsFile(), logging.Component("watcher"))
	if err != nil {
		return fmt.Errorf("watch items: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	out := c.Root().Writer
	redraw := isTerminal(out) && !cmd.jsonOutput

	for {
		if redraw {
			_, _ = fmt.Fprint(out, clearScreen)
		}
		if err := cmd.render(ctx, c, sortMode, filterMode); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Changes():
		}

		if err := cmd.flags.Store.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reload items: %w", err)
		}
	}
}

// modes resolves the sort and filter modes from flags, falling back to config.
func (cmd *LsCmd) modes() (analytics.SortMode, analytics.FilterMode, error) {
	sortMode := cmd.flags.Config.View.Sort
	if cmd.sortMode != "" {
		m, err := analytics.ParseSortMode(cmd.sortMode)
		if err != nil {
			return "", "", err
		}
		sortMode = m
	}

	filterMode := cmd.flags.Config.View.Filter
	if cmd.filterMode != "" {
		m, err := analytics.ParseFilterMode(cmd.filterMode)
		if err != nil {
			return "", "", err
		}
		filterMode = m
	}

	return sortMode, filterMode, nil
}

