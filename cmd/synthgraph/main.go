package main

import (
	"os"

	"github.com/codegangsta/cli"

	"github.com/justyntemme/synthgraph/pkg/command"
)

func main() {
	app := cli.NewApp()
	app.Name = "synthgraph"
	app.Usage = "real-time audio synthesis graph driven by Lua"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		command.Run,
		command.Render,
		command.Nodes,
		command.Config,
	}

	app.Run(os.Args)
}
