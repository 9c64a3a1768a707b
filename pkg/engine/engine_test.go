package engine

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/pkg/debug"
	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	log := debug.New(&bytes.Buffer{}, "", 0)
	e := New(log)
	t.Cleanup(func() { e.Close() })
	return e
}

// patch builds osc -> dac on both channels and returns the ids
func patch(t *testing.T, e *Engine) (osc, dac int) {
	t.Helper()
	osc, err := e.New("osc")
	require.NoError(t, err)
	dac, err = e.New("dac")
	require.NoError(t, err)
	require.NoError(t, e.Link(osc, "out", dac, "left"))
	require.NoError(t, e.Link(osc, "out", dac, "right"))
	return osc, dac
}

func TestEngineSilentWithoutSink(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.New("osc")
	require.NoError(t, err)

	out := make([]float32, 512)
	for i := range out {
		out[i] = 1
	}
	e.Read(out)
	for i, v := range out {
		require.Zero(t, v, "sample %d", i)
	}
}

func TestEngineRendersSine(t *testing.T) {
	e := newTestEngine(t)
	patch(t, e)

	out := make([]float32, QuantumFrames*4)
	e.Read(out)

	// osc holds the lower id, so the dac sees its output in the same quantum
	for f := 0; f < dsp.Quantum*4; f++ {
		expected := math.Sin(2 * math.Pi * 440 * float64(f) / dsp.SampleRate)
		require.InDelta(t, expected, out[f*2], 1e-4, "left frame %d", f)
		require.InDelta(t, expected, out[f*2+1], 1e-4, "right frame %d", f)
	}
}

func TestEngineSinkOrderDelaysOneQuantum(t *testing.T) {
	e := newTestEngine(t)
	dac, err := e.New("dac")
	require.NoError(t, err)
	osc, err := e.New("osc")
	require.NoError(t, err)
	require.NoError(t, e.Link(osc, "out", dac, "left"))

	out := make([]float32, QuantumFrames*2)
	e.Read(out)
	for f := 0; f < dsp.Quantum; f++ {
		require.Zero(t, out[f*2], "frame %d", f)
	}
	for f := 1; f < dsp.Quantum; f++ {
		require.NotZero(t, out[(dsp.Quantum+f)*2], "frame %d", dsp.Quantum+f)
	}
}

func TestEngineSumsSinks(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 3; i++ {
		dac, err := e.New("dac")
		require.NoError(t, err)
		require.NoError(t, e.Set(dac, "left", 0.25))
		require.NoError(t, e.Set(dac, "right", -0.5))
	}

	out := make([]float32, QuantumFrames)
	e.Read(out)
	for f := 0; f < dsp.Quantum; f++ {
		assert.InDelta(t, 0.75, out[f*2], 1e-6)
		assert.InDelta(t, -1.5, out[f*2+1], 1e-6)
	}
}

func TestEngineChunkSizesAgree(t *testing.T) {
	whole := newTestEngine(t)
	patch(t, whole)
	expected := make([]float32, QuantumFrames*5)
	whole.Read(expected)

	chunked := newTestEngine(t)
	patch(t, chunked)
	got := make([]float32, 0, len(expected))
	for _, size := range []int{1, 99, 128, 3, 200, 209} {
		buf := make([]float32, size)
		chunked.Read(buf)
		got = append(got, buf...)
	}
	require.Len(t, got, len(expected))

	// Noise-free patches render identically regardless of chunking
	assert.Equal(t, expected, got)
	assert.EqualValues(t, 5, chunked.Stats().Quanta)
}

func TestEngineTicksFollowRenderedAudio(t *testing.T) {
	e := newTestEngine(t)
	e.SetTick(2 * dsp.QuantumTime)

	out := make([]float32, QuantumFrames*6)
	e.Read(out)

	calls := 0
	assert.Equal(t, 3, e.Ticker().Drain(func() { calls++ }))
	assert.Equal(t, 3, calls)
	assert.EqualValues(t, 3, e.Stats().Ticks)
}

func TestControlAPI(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.New("nope")
	assert.ErrorIs(t, err, graph.ErrBadNodeName)

	osc, dac := patch(t, e)
	assert.Equal(t, 0, osc)
	assert.Equal(t, 1, dac)

	t.Run("BadIDs", func(t *testing.T) {
		assert.ErrorIs(t, e.Destroy(99), graph.ErrBadNodeID)
		assert.ErrorIs(t, e.Link(99, "out", dac, "left"), graph.ErrBadNodeID)
		assert.ErrorIs(t, e.Link(osc, "out", 99, "left"), graph.ErrBadNodeID)
		assert.ErrorIs(t, e.Unlink(-1, "out", dac, "left"), graph.ErrBadNodeID)
		assert.ErrorIs(t, e.Set(99, "freq", 1), graph.ErrBadNodeID)
		_, err := e.Get(99, "out")
		assert.ErrorIs(t, err, graph.ErrBadNodeID)
		assert.ErrorIs(t, e.Send(99, "mode saw"), graph.ErrBadNodeID)
	})

	t.Run("PortErrors", func(t *testing.T) {
		assert.ErrorIs(t, e.Link(osc, "nope", dac, "left"), graph.ErrBadOutlet)
		assert.ErrorIs(t, e.Link(osc, "out", dac, "nope"), graph.ErrBadInlet)
		assert.ErrorIs(t, e.Set(osc, "out", 1), graph.ErrBadInlet)
		_, err := e.Get(osc, "freq")
		assert.ErrorIs(t, err, graph.ErrBadOutlet)
	})

	t.Run("SetGetSend", func(t *testing.T) {
		require.NoError(t, e.Set(osc, "freq", 0))
		require.NoError(t, e.Send(osc, "mode pulse"))
		e.Read(make([]float32, QuantumFrames))
		v, err := e.Get(osc, "out")
		require.NoError(t, err)
		assert.Equal(t, float32(-1), v)

		err = e.Send(osc, "mode bogus")
		assert.ErrorIs(t, err, graph.ErrBadMessage)
		assert.EqualError(t, err, "bad mode 'bogus'")
	})

	t.Run("UnlinkUnlinks", func(t *testing.T) {
		require.NoError(t, e.Unlink(osc, "out", dac, "left"))
		d, err := e.Describe(dac)
		require.NoError(t, err)
		assert.Equal(t, 0, d.Inlets[0].Links)
		assert.Equal(t, 1, d.Inlets[1].Links)
		assert.ErrorIs(t, e.Unlink(osc, "out", dac, "left"), graph.ErrBadLink)
	})

	t.Run("DestroyUnlinksAndReusesID", func(t *testing.T) {
		require.NoError(t, e.Destroy(osc))
		d, err := e.Describe(dac)
		require.NoError(t, err)
		for _, p := range d.Inlets {
			assert.Zero(t, p.Links, p.Name)
		}
		_, err = e.Describe(osc)
		assert.ErrorIs(t, err, graph.ErrBadNodeID)

		id, err := e.New("math")
		require.NoError(t, err)
		assert.Equal(t, osc, id)
	})
}

func TestNodesListing(t *testing.T) {
	e := newTestEngine(t)
	osc, dac := patch(t, e)

	list := e.Nodes()
	require.Len(t, list, 2)
	assert.Equal(t, NodeDesc{
		ID:      osc,
		Name:    "osc",
		Inlets:  []PortDesc{{"phase", 0}, {"freq", 0}},
		Outlets: []PortDesc{{"out", 2}},
	}, list[0])
	assert.Equal(t, dac, list[1].ID)
	assert.Equal(t, "dac", list[1].Name)
}

func TestDoAppliesTogether(t *testing.T) {
	e := newTestEngine(t)

	var osc, dac int
	err := e.Do(func(tx *Tx) error {
		var err error
		if osc, err = tx.New("osc"); err != nil {
			return err
		}
		if dac, err = tx.New("dac"); err != nil {
			return err
		}
		if err = tx.Link(osc, "out", dac, "left"); err != nil {
			return err
		}
		return tx.Set(osc, "freq", 220)
	})
	require.NoError(t, err)

	err = e.Do(func(tx *Tx) error {
		return tx.Link(osc, "out", dac, "bogus")
	})
	assert.ErrorIs(t, err, graph.ErrBadInlet)

	d, err := e.Describe(dac)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Inlets[0].Links)
}

func TestStreamRaw(t *testing.T) {
	e := newTestEngine(t)
	dac, err := e.New("dac")
	require.NoError(t, err)
	require.NoError(t, e.Set(dac, "left", 0.5))
	require.NoError(t, e.Set(dac, "right", -0.25))

	path := filepath.Join(t.TempDir(), "out.raw")
	require.NoError(t, e.SetStream(path))
	assert.Equal(t, path, e.Stats().Stream)

	e.Read(make([]float32, 300))
	require.NoError(t, e.SetStream("none"))
	assert.Empty(t, e.Stats().Stream)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 300*4)
	for i := 0; i < 300; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if i%2 == 0 {
			require.Equal(t, float32(0.5), v)
		} else {
			require.Equal(t, float32(-0.25), v)
		}
	}

	// Nothing is written after close
	e.Read(make([]float32, 64))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 300*4)
}

func TestStreamWav(t *testing.T) {
	e := newTestEngine(t)
	patch(t, e)

	path := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, e.SetStream(path))
	e.Read(make([]float32, dsp.SampleRate/10*2))
	require.NoError(t, e.SetStream(""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
}

func TestStreamOpenFailure(t *testing.T) {
	e := newTestEngine(t)
	err := e.SetStream(filepath.Join(t.TempDir(), "missing", "dir", "out.raw"))
	assert.Error(t, err)
	assert.Empty(t, e.Stats().Stream)
}

func TestStreamReopenAfterWriteError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	logs := &bytes.Buffer{}
	e := New(debug.New(logs, "", 0))
	t.Cleanup(func() { e.Close() })
	patch(t, e)

	require.NoError(t, e.SetStream("/dev/full"))
	// More than the 64 KiB write buffer, so the write reaches the device
	e.Read(make([]float32, 32*1024))

	path := filepath.Join(t.TempDir(), "ok.raw")
	require.NoError(t, e.SetStream(path))
	assert.Equal(t, path, e.Stats().Stream)
	assert.Contains(t, logs.String(), "failed to write stream /dev/full")

	e.Read(make([]float32, 128))
	require.NoError(t, e.SetStream(""))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 128*4)
}

func TestStreamCloseReportsWriteError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	e := newTestEngine(t)
	patch(t, e)

	require.NoError(t, e.SetStream("/dev/full"))
	e.Read(make([]float32, 32*1024))
	err := e.SetStream("none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write stream /dev/full")
	assert.Empty(t, e.Stats().Stream)
}

func TestConcurrentControlAndAudio(t *testing.T) {
	e := newTestEngine(t)
	patch(t, e)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := make([]float32, 256)
		for {
			select {
			case <-stop:
				return
			default:
				e.Read(buf)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		id, err := e.New("svf")
		require.NoError(t, err)
		require.NoError(t, e.Link(0, "out", id, "in"))
		require.NoError(t, e.Link(id, "out", 1, "left"))
		require.NoError(t, e.Set(id, "freq", float32(100+i)))
		require.NoError(t, e.Destroy(id))
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 2, e.Stats().Nodes)
}

func TestReadDoesNotAllocate(t *testing.T) {
	e := newTestEngine(t)
	osc, dac := patch(t, e)

	chain := []struct{ name, inlet, outlet string }{
		{"svf", "in", "out"},
		{"delay", "in", "out"},
		{"reverb", "left", "left"},
		{"math", "in2", "out"},
		{"shaper", "in", "out"},
	}
	for _, c := range chain {
		id, err := e.New(c.name)
		require.NoError(t, err)
		require.NoError(t, e.Link(osc, "out", id, c.inlet))
		require.NoError(t, e.Link(id, c.outlet, dac, "right"))
	}
	line, err := e.New("line")
	require.NoError(t, err)
	require.NoError(t, e.Send(line, "begin 1 0.5 0 0.5"))
	require.NoError(t, e.Link(line, "out", dac, "left"))

	buf := make([]float32, 512)
	e.Read(buf)
	allocs := testing.AllocsPerRun(50, func() {
		e.Read(buf)
	})
	assert.Zero(t, allocs)
}
