package command

import (
	"fmt"
	"os"

	"github.com/codegangsta/cli"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/config"
)

var ConfigAction = func(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !ctx.Bool("force") {
		return errors.Errorf("'%s' already exists, use --force to overwrite", path)
	}

	conf := config.DefaultConfig()
	applyFlags(ctx, conf)
	if err := conf.Validate(); err != nil {
		return err
	}
	if err := config.WriteConfig(path, conf); err != nil {
		return err
	}
	fmt.Fprintf(Stdout, "wrote %s\n", path)
	return nil
}

var Config = cli.Command{
	Name:      "config",
	Usage:     "write a configuration file with default values",
	ArgsUsage: "[path]",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "force, f", Usage: "overwrite an existing file"},
		cli.StringFlag{Name: "backend, b", Usage: "oto, portaudio or none"},
		cli.IntFlag{Name: "frames", Usage: "device buffer size in frames"},
	},
	Action: errAction(ConfigAction),
}
