package engine

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/justyntemme/synthgraph/pkg/debug"
	"github.com/justyntemme/synthgraph/pkg/dsp"
)

// DefaultTickInterval is the tick period before SetTick is called, in seconds
const DefaultTickInterval = 1.0

// Ticker converts rendered audio time into periodic control ticks. The audio
// side calls Advance once per quantum; the control side consumes ticks with
// Run or Drain. Ticks are counted, never dropped, so a slow consumer catches
// up instead of skipping.
type Ticker struct {
	interval atomic.Uint64 // float64 bits, seconds
	timer    float64       // audio side only
	pending  atomic.Int64
	fired    atomic.Uint64
	wake     chan struct{}
	log      *debug.Logger
}

// NewTicker creates a ticker with DefaultTickInterval
func NewTicker(log *debug.Logger) *Ticker {
	t := &Ticker{
		wake: make(chan struct{}, 1),
		log:  log,
	}
	t.SetInterval(DefaultTickInterval)
	return t
}

// SetInterval sets the tick period in seconds. Periods at or below zero are
// clamped to one quantum. The new period applies from the next tick on.
func (t *Ticker) SetInterval(seconds float64) {
	if seconds <= 0 || math.IsNaN(seconds) {
		seconds = dsp.QuantumTime
	}
	t.interval.Store(math.Float64bits(seconds))
}

// Interval returns the tick period in seconds
func (t *Ticker) Interval() float64 {
	return math.Float64frombits(t.interval.Load())
}

// Advance moves the ticker forward by dt seconds of rendered audio and queues
// every tick that came due - no allocations
func (t *Ticker) Advance(dt float64) {
	interval := t.Interval()
	due := int64(0)

	t.timer -= dt
	for t.timer < 0 {
		due++
		t.timer += interval
	}
	if due == 0 {
		return
	}

	t.pending.Add(due)
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued ticks
func (t *Ticker) Pending() int64 {
	return t.pending.Load()
}

// Fired returns the number of ticks delivered so far
func (t *Ticker) Fired() uint64 {
	return t.fired.Load()
}

// Drain delivers every queued tick to fn on the calling goroutine and returns
// how many were delivered
func (t *Ticker) Drain(fn func()) int {
	n := t.pending.Swap(0)
	for i := int64(0); i < n; i++ {
		fn()
		t.fired.Add(1)
	}
	return int(n)
}

// Run delivers ticks to fn until ctx is done
func (t *Ticker) Run(ctx context.Context, fn func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.wake:
			n := t.Drain(fn)
			if n > 1 && t.log != nil {
				t.log.Warn("tick handler fell behind, ran %d ticks back to back", n)
			}
		}
	}
}
