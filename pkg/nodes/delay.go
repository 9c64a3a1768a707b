package nodes

import (
	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/delay"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

var delayInfo = &graph.Info{
	Name:    "delay",
	Inlets:  []string{"in", "time", "feedback"},
	Outlets: []string{"out"},
}

type delayNode struct {
	graph.Base
	line     *delay.Line
	wet, dry float32
}

// NewDelay creates a 0.2s feedback delay, fully wet
func NewDelay() *graph.Node {
	d := &delayNode{
		line: delay.New(),
		wet:  1,
		dry:  0,
	}
	n := graph.New(delayInfo, d)
	n.Set("time", 0.2)
	n.Set("feedback", 0.5)
	return n
}

func (d *delayNode) Process(n *graph.Node) {
	d.line.ProcessBuffer(n.Inlets[0].Buf[:], n.Inlets[1].Buf[:], n.Inlets[2].Buf[:],
		n.Outlets[0].Buf[:], dsp.SampleRate, d.wet, d.dry)
}

func (d *delayNode) Receive(n *graph.Node, msg string) error {
	cmd, v, err := parseSetting(msg, "wet", "dry")
	if err != nil {
		return err
	}
	switch cmd {
	case "wet":
		d.wet = v
	case "dry":
		d.dry = v
	}
	return nil
}
