package nodes

import (
	"strings"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/reverb"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

var reverbInfo = &graph.Info{
	Name:    "reverb",
	Inlets:  []string{"left", "right"},
	Outlets: []string{"left", "right"},
}

type reverbNode struct {
	graph.Base
	fv *reverb.Freeverb
}

// NewReverb creates a stereo Freeverb with its default room
func NewReverb() *graph.Node {
	return graph.New(reverbInfo, &reverbNode{fv: reverb.NewFreeverb(dsp.SampleRate)})
}

func (r *reverbNode) Process(n *graph.Node) {
	r.fv.ProcessBuffer(n.Inlets[0].Buf[:], n.Inlets[1].Buf[:], n.Outlets[0].Buf[:], n.Outlets[1].Buf[:])
}

func (r *reverbNode) Receive(n *graph.Node, msg string) error {
	if strings.TrimSpace(msg) == "mute" {
		r.fv.Mute()
		return nil
	}

	cmd, v, err := parseSetting(msg, "roomsize", "damp", "wet", "dry", "width", "freeze")
	if err != nil {
		return err
	}
	switch cmd {
	case "roomsize":
		r.fv.SetRoomSize(v)
	case "damp":
		r.fv.SetDamping(v)
	case "wet":
		r.fv.SetWetLevel(v)
	case "dry":
		r.fv.SetDryLevel(v)
	case "width":
		r.fv.SetWidth(v)
	case "freeze":
		r.fv.SetMode(v)
	}
	return nil
}
