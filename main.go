package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskpad/internal/commands"
	"github.com/hay-kot/taskpad/internal/core/config"
	"github.com/hay-kot/taskpad/internal/core/logging"
	"github.com/hay-kot/taskpad/internal/core/styles"
	"github.com/hay-kot/taskpad/internal/store/linefile"
	"github.com/hay-kot/taskpad/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "taskpad",
		Usage:     "Track personal tasks from the terminal",
		UsageText: "taskpad [global options] command [command options]",
		Description: `Taskpad keeps a list of tasks in a plain text file, one task per line.

Every task has a name, an optional description, a priority, and a status.
Commands that act on a single task take its index as shown by 'taskpad ls'.

Run 'taskpad' with no arguments to list tasks.
Run 'taskpad add' to create a new task.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKPAD_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/taskpad.log)",
				Sources:     cli.EnvVars("TASKPAD_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKPAD_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKPAD_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/taskpad.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "taskpad.log")
			}

			logger, closer, err := logutils.New(logutils.Options{
				Level:    flags.LogLevel,
				File:     logFile,
				MaxBytes: logutils.DefaultMaxBytes,
			})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.View.Theme)
			styles.SetTheme(palette)

			store := linefile.New(cfg.ItemsFile(), logging.Component("store"))
			if err := store.Reload(ctx); err != nil {
				return ctx, fmt.Errorf("open items: %w", err)
			}

			flags.Config = cfg
			flags.Store = store

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	lsCmd := commands.NewLsCmd(flags)

	app = lsCmd.Register(app)
	app = commands.NewShowCmd(flags).Register(app)
	app = commands.NewAddCmd(flags).Register(app)
	app = commands.NewEditCmd(flags).Register(app)
	app = commands.NewToggleCmd(flags).Register(app)
	app = commands.NewRmCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	// List items when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'taskpad --help' for usage", c.Args().First())
		}
		return lsCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
