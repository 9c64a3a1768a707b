package nodes

import "github.com/justyntemme/synthgraph/pkg/graph"

var dacInfo = &graph.Info{
	Name:    "dac",
	Inlets:  []string{"left", "right"},
	Outlets: []string{"left", "right"},
	Sink:    true,
}

type dac struct {
	graph.Base
}

// NewDAC creates an output node. Its outlets are summed into the final mix.
func NewDAC() *graph.Node {
	return graph.New(dacInfo, &dac{})
}

func (d *dac) Process(n *graph.Node) {
	n.Outlets[0].Buf = n.Inlets[0].Buf
	n.Outlets[1].Buf = n.Inlets[1].Buf
}
