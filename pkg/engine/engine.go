// Package engine runs the synthesis graph: it owns the node registry,
// evaluates every node once per quantum, mixes sink outlets into the stereo
// output, schedules control ticks against rendered audio time, and exposes the
// Control API used to build and modify the graph while audio is running.
//
// A single mutex guards the registry and all node and port state. The audio
// side takes it once per quantum; every Control API call takes it for the
// duration of the call.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/justyntemme/synthgraph/pkg/debug"
	"github.com/justyntemme/synthgraph/pkg/dsp"
)

// QuantumFrames is the length of one interleaved stereo quantum in samples
const QuantumFrames = dsp.Quantum * dsp.Channels

// Engine is a running synthesis graph
type Engine struct {
	mu  sync.Mutex
	reg *Registry

	// staging holds the last rendered quantum; pos is the next sample to hand
	// out. Both belong to the goroutine calling Read.
	staging [QuantumFrames]float32
	pos     int

	ticker *Ticker
	tee    Tee
	prof   *debug.AudioProcessProfiler
	log    *debug.Logger
	quanta atomic.Uint64
}

// New creates an empty engine. A nil logger uses debug.Default().
func New(log *debug.Logger) *Engine {
	if log == nil {
		log = debug.Default()
	}
	return &Engine{
		reg:    NewRegistry(),
		pos:    QuantumFrames,
		ticker: NewTicker(log),
		prof:   debug.NewAudioProcessProfiler(dsp.SampleRate, dsp.Quantum),
		log:    log,
	}
}

// Ticker returns the engine's tick scheduler
func (e *Engine) Ticker() *Ticker {
	return e.ticker
}

// Profiler returns the evaluation profiler
func (e *Engine) Profiler() *debug.AudioProcessProfiler {
	return e.prof
}

// Logger returns the engine's logger
func (e *Engine) Logger() *debug.Logger {
	return e.log
}

// evaluate processes every live node in slot order and mixes sink outlets
// into out as interleaved stereo. Caller holds e.mu - no allocations
func (e *Engine) evaluate(out *[QuantumFrames]float32) {
	slots := e.reg.Slots()
	for _, n := range slots {
		if n != nil {
			n.Process()
		}
	}

	dsp.Clear(out[:])

	for _, n := range slots {
		if n == nil || !n.Info().Sink {
			continue
		}
		left := &n.Outlets[0].Buf
		right := &n.Outlets[1].Buf
		for i := 0; i < dsp.Quantum; i++ {
			out[i*2] += left[i]
			out[i*2+1] += right[i]
		}
	}
}

// render produces the next quantum into the staging buffer and advances the
// tick scheduler by one quantum of audio time
func (e *Engine) render() {
	start := time.Now()
	e.mu.Lock()
	e.evaluate(&e.staging)
	e.mu.Unlock()
	e.prof.Measure(start)

	e.quanta.Add(1)
	e.ticker.Advance(dsp.QuantumTime)
}

// Read fills out with interleaved stereo samples, rendering new quanta as the
// staging buffer runs dry, and copies the result to the stream tee. It is the
// audio-thread entry point and must not be called concurrently with itself.
func (e *Engine) Read(out []float32) {
	for i := 0; i < len(out); {
		if e.pos == QuantumFrames {
			e.render()
			e.pos = 0
		}
		n := copy(out[i:], e.staging[e.pos:])
		e.pos += n
		i += n
	}
	e.tee.Write(out)
}

// Stats is a snapshot of engine counters
type Stats struct {
	Nodes     int
	HighWater int
	Quanta    uint64
	Ticks     uint64
	CPULoad   float64
	Stream    string
}

// Stats returns current engine counters
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	nodes, hwm := e.reg.Len(), e.reg.HighWater()
	e.mu.Unlock()

	return Stats{
		Nodes:     nodes,
		HighWater: hwm,
		Quanta:    e.quanta.Load(),
		Ticks:     e.ticker.Fired(),
		CPULoad:   e.prof.GetCPULoad(),
		Stream:    e.tee.Path(),
	}
}

// Close closes the stream tee
func (e *Engine) Close() error {
	return e.tee.Close()
}
