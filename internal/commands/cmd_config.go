package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/taskpad/internal/core/config"
	"github.com/hay-kot/taskpad/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "taskpad config show [--format yaml|json]",
				Description: "Prints the configuration after defaults are applied, followed by the resolved items file.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (yaml, json)",
						Value:       "yaml",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runShow,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	out := c.Root().Writer

	switch cmd.format {
	case "json":
		return iojson.WriteIndent(out, struct {
			ConfigPath string             `json:"config_path"`
			ItemsFile  string             `json:"items_file"`
			Store      config.StoreConfig `json:"store"`
			View       config.ViewConfig  `json:"view"`
		}{
			ConfigPath: cmd.flags.ConfigPath,
			ItemsFile:  cfg.ItemsFile(),
			Store:      cfg.Store,
			View:       cfg.View,
		})
	case "yaml", "":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, _ = fmt.Fprintf(out, "# config: %s\n# items:  %s\n", cmd.flags.ConfigPath, cfg.ItemsFile())
		_, _ = out.Write(data)
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be yaml or json", cmd.format)
	}
}
