package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/pkg/dsp"
)

func TestTickerSchedule(t *testing.T) {
	t.Run("FiresOnFirstQuantum", func(t *testing.T) {
		tk := NewTicker(nil)
		tk.Advance(dsp.QuantumTime)
		assert.EqualValues(t, 1, tk.Pending())
	})

	t.Run("EveryOtherQuantum", func(t *testing.T) {
		tk := NewTicker(nil)
		tk.SetInterval(2 * dsp.QuantumTime)
		for i := 0; i < 8; i++ {
			tk.Advance(dsp.QuantumTime)
		}
		assert.EqualValues(t, 4, tk.Pending())
	})

	t.Run("CatchesUp", func(t *testing.T) {
		tk := NewTicker(nil)
		tk.SetInterval(dsp.QuantumTime / 4)
		tk.Advance(dsp.QuantumTime)
		tk.Advance(dsp.QuantumTime)
		assert.EqualValues(t, 8, tk.Pending())
	})

	t.Run("ClampsNonPositive", func(t *testing.T) {
		tk := NewTicker(nil)
		tk.SetInterval(0)
		assert.Equal(t, dsp.QuantumTime, tk.Interval())
		tk.SetInterval(-3)
		assert.Equal(t, dsp.QuantumTime, tk.Interval())

		for i := 0; i < 10; i++ {
			tk.Advance(dsp.QuantumTime)
		}
		assert.EqualValues(t, 10, tk.Pending())
	})

	t.Run("OneSecondDefault", func(t *testing.T) {
		tk := NewTicker(nil)
		quanta := int(2 * dsp.SampleRate / dsp.Quantum)
		for i := 0; i < quanta; i++ {
			tk.Advance(dsp.QuantumTime)
		}
		assert.EqualValues(t, 2, tk.Pending())
	})
}

func TestTickerDrain(t *testing.T) {
	tk := NewTicker(nil)
	tk.SetInterval(dsp.QuantumTime)
	for i := 0; i < 3; i++ {
		tk.Advance(dsp.QuantumTime)
	}

	calls := 0
	assert.Equal(t, 3, tk.Drain(func() { calls++ }))
	assert.Equal(t, 3, calls)
	assert.Zero(t, tk.Pending())
	assert.EqualValues(t, 3, tk.Fired())
	assert.Zero(t, tk.Drain(func() { calls++ }))
}

func TestTickerRun(t *testing.T) {
	tk := NewTicker(nil)
	tk.SetInterval(dsp.QuantumTime)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- tk.Run(ctx, func() { calls.Add(1) })
	}()

	for i := 0; i < 5; i++ {
		tk.Advance(dsp.QuantumTime)
	}
	require.Eventually(t, func() bool { return calls.Load() == 5 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
