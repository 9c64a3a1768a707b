package command

import (
	"fmt"
	"strings"

	"github.com/codegangsta/cli"

	"github.com/justyntemme/synthgraph/pkg/nodes"
)

var NodesAction = func(ctx *cli.Context) error {
	for _, name := range nodes.Names() {
		info, _ := nodes.Describe(name)
		kind := ""
		if info.Sink {
			kind = " (sink)"
		}
		fmt.Fprintf(Stdout, "%s%s\n", name, kind)
		fmt.Fprintf(Stdout, "  inlets:  %s\n", portList(info.Inlets))
		fmt.Fprintf(Stdout, "  outlets: %s\n", portList(info.Outlets))
	}
	return nil
}

func portList(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, " ")
}

var Nodes = cli.Command{
	Name:   "nodes",
	Usage:  "list node types with their inlets and outlets",
	Action: errAction(NodesAction),
}
