// Package command implements the synthgraph CLI commands.
package command

import (
	"io"
	"os"

	"github.com/codegangsta/cli"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/config"
	"github.com/justyntemme/synthgraph/pkg/debug"
)

// Clog receives command errors and, unless log_file is set, engine logs. It
// is public so tests can capture it.
var Clog io.Writer = os.Stderr

// Stdout receives command output
var Stdout io.Writer = os.Stdout

type errFunc func(ctx *cli.Context) error

func errAction(f errFunc) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := f(ctx); err != nil {
			return cli.NewExitError("synthgraph: "+err.Error(), 1)
		}
		return nil
	}
}

// Flags shared by every command that loads a configuration
var configFlags = []cli.Flag{
	cli.StringFlag{Name: "config, c", Usage: "configuration file (default ~/.synthgraph/config.json)"},
	cli.StringFlag{Name: "script, s", Usage: "Lua control script to run"},
	cli.Float64Flag{Name: "tick", Usage: "tick interval in seconds"},
	cli.StringFlag{Name: "log-level", Usage: "debug, info, warn, error or off"},
	cli.StringFlag{Name: "log-file", Usage: "append logs to this file"},
}

// loadConfig reads the configuration named by --config, or the default file
// when it exists, then applies command line overrides
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	var (
		conf *config.Config
		err  error
	)
	if path := ctx.String("config"); path != "" {
		conf, err = config.ReadConfig(path)
		if err != nil {
			return nil, err
		}
	} else {
		conf = config.DefaultConfig()
		if path, perr := config.DefaultPath(); perr == nil {
			if _, serr := os.Stat(path); serr == nil {
				if conf, err = config.ReadConfig(path); err != nil {
					return nil, err
				}
			}
		}
	}

	applyFlags(ctx, conf)
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if err := conf.ExpandPaths(); err != nil {
		return nil, err
	}
	return conf, nil
}

func applyFlags(ctx *cli.Context, conf *config.Config) {
	strs := map[string]*string{
		"backend":   &conf.Backend,
		"script":    &conf.Script,
		"stream":    &conf.Stream,
		"log-level": &conf.LogLevel,
		"log-file":  &conf.LogFile,
		"midi-in":   &conf.MidiIn,
		"midi-out":  &conf.MidiOut,
	}
	for name, p := range strs {
		if ctx.IsSet(name) {
			*p = ctx.String(name)
		}
	}
	if ctx.IsSet("frames") {
		conf.Frames = ctx.Int("frames")
	}
	if ctx.IsSet("tick") {
		conf.Tick = ctx.Float64("tick")
	}
	if ctx.IsSet("console") {
		conf.Console = ctx.Bool("console")
	}
}

// newLogger builds the engine logger. The returned closer is nil unless the
// log goes to a file.
func newLogger(conf *config.Config) (*debug.Logger, io.Closer, error) {
	level, err := debug.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var (
		log    *debug.Logger
		closer io.Closer
	)
	if conf.LogFile != "" {
		log, closer, err = debug.NewFileLogger(conf.LogFile, "synthgraph", debug.DefaultFlags)
		if err != nil {
			return nil, nil, err
		}
	} else {
		log = debug.New(Clog, "synthgraph", debug.DefaultFlags)
	}
	log.SetLevel(level)
	return log, closer, nil
}
