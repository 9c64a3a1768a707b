package nodes

import (
	"github.com/justyntemme/synthgraph/pkg/dsp/distortion"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

var shaperInfo = &graph.Info{
	Name:    "shaper",
	Inlets:  []string{"in", "gain"},
	Outlets: []string{"out"},
}

type shaper struct {
	graph.Base
	ws *distortion.Waveshaper
}

// NewShaper creates a soft clipping waveshaper with unity gain
func NewShaper() *graph.Node {
	n := graph.New(shaperInfo, &shaper{ws: distortion.NewWaveshaper(distortion.CurveSoftClip)})
	n.Set("gain", 1)
	return n
}

func (s *shaper) Process(n *graph.Node) {
	s.ws.ProcessBuffer(n.Inlets[0].Buf[:], n.Inlets[1].Buf[:], n.Outlets[0].Buf[:])
}

func (s *shaper) Receive(n *graph.Node, msg string) error {
	c, err := parseMode(msg, distortion.ParseCurve)
	if err != nil {
		return err
	}
	s.ws.SetCurveType(c)
	return nil
}
