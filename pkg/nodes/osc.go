package nodes

import (
	"math/rand"
	"time"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/dsp/oscillator"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

const (
	oscPhase = iota
	oscFreq
)

var oscInfo = &graph.Info{
	Name:    "osc",
	Inlets:  []string{"phase", "freq"},
	Outlets: []string{"out"},
}

type osc struct {
	graph.Base
	mode   oscillator.Waveform
	phase  *oscillator.Accumulator
	shaper *oscillator.Shaper
}

// NewOsc creates an oscillator at 440Hz in sine mode. Its phase is
// integrated from freq unless the phase inlet is linked.
func NewOsc() *graph.Node {
	o := &osc{
		mode:   oscillator.Sine,
		phase:  oscillator.NewAccumulator(dsp.SampleRate),
		shaper: oscillator.NewShaper(rand.NewSource(time.Now().UnixNano())),
	}
	n := graph.New(oscInfo, o)
	n.Set("freq", 440)
	return n
}

func (o *osc) Process(n *graph.Node) {
	phase := &n.Inlets[oscPhase]
	if !phase.Linked() {
		o.phase.ProcessPhase(n.Inlets[oscFreq].Buf[:], phase.Buf[:])
	}
	o.shaper.Process(o.mode, phase.Buf[:], n.Outlets[0].Buf[:])
}

func (o *osc) Receive(n *graph.Node, msg string) error {
	m, err := parseMode(msg, oscillator.ParseWaveform)
	if err != nil {
		return err
	}
	o.mode = m
	return nil
}
