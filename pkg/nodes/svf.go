package nodes

import (
	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/filter"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

var svfInfo = &graph.Info{
	Name:    "svf",
	Inlets:  []string{"in", "freq", "q"},
	Outlets: []string{"out"},
}

type svf struct {
	graph.Base
	mode   filter.Mode
	filter *filter.SVF
}

// NewSVF creates a lowpass state variable filter at 440Hz, q 1
func NewSVF() *graph.Node {
	s := &svf{
		mode:   filter.Lowpass,
		filter: filter.NewSVF(dsp.SampleRate),
	}
	n := graph.New(svfInfo, s)
	n.Set("freq", 440)
	n.Set("q", 1)
	return n
}

func (s *svf) Process(n *graph.Node) {
	s.filter.Process(s.mode, n.Inlets[0].Buf[:], n.Inlets[1].Buf[:], n.Inlets[2].Buf[:], n.Outlets[0].Buf[:])
}

func (s *svf) Receive(n *graph.Node, msg string) error {
	m, err := parseMode(msg, filter.ParseMode)
	if err != nil {
		return err
	}
	s.mode = m
	return nil
}
