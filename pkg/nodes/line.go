package nodes

import (
	"strings"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/envelope"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

var lineInfo = &graph.Info{
	Name:    "line",
	Outlets: []string{"out"},
}

type lineNode struct {
	graph.Base
	line *envelope.Line
	// scratch holds parsed points until the whole message validates
	scratch [envelope.MaxPoints]envelope.Point
}

// NewLine creates an idle breakpoint generator that outputs 0
func NewLine() *graph.Node {
	return graph.New(lineInfo, &lineNode{line: envelope.NewLine(dsp.SampleRate)})
}

func (l *lineNode) Process(n *graph.Node) {
	l.line.Process(n.Outlets[0].Buf[:])
}

// Receive handles "begin (value time)+"
func (l *lineNode) Receive(n *graph.Node, msg string) error {
	fields := strings.Fields(msg)
	if len(fields) == 0 || fields[0] != "begin" {
		return graph.Messagef("bad command")
	}
	args := fields[1:]

	count := 0
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			return graph.Messagef("invalid or missing number")
		}
		value, ok := parseFloat(args[i])
		if !ok || !finite(value) {
			return graph.Messagef("invalid or missing number")
		}
		t, ok := parseFloat(args[i+1])
		if !ok {
			return graph.Messagef("invalid or missing number")
		}
		if t < 0 || !finite(t) {
			return graph.Messagef("bad time '%s'", args[i+1])
		}
		if count >= envelope.MaxPoints {
			return graph.Messagef("too many points")
		}
		l.scratch[count] = envelope.Point{Value: value, Time: t}
		count++
	}

	l.line.Begin(l.scratch[:count])
	return nil
}
