package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitgraph-go/config"
)

const defaultConfigPath = ".commitgraph.yaml"

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

// InitConfigCmd returns the init-config command, which writes the default
// configuration to a file.
func InitConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "init-config",
		Usage: "Write the default configuration to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "Configuration file to create (.json, .yaml, .yml, .toml)",
				Value: defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: initConfigAction,
	}
}

func initConfigAction(c *cli.Context) error {
	path := c.String("output")
	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return exitError(fmt.Errorf("%w: %s", errConfigExists, path), c.App.ErrWriter, false)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return exitError(err, c.App.ErrWriter, false)
		}
	}

	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return exitError(fmt.Errorf("failed to write config: %w", err), c.App.ErrWriter, false)
	}
	fmt.Fprintf(c.App.Writer, "Wrote default configuration to %s\n", path)
	return nil
}
