package audio

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/pkg/debug"
)

type countingSource struct {
	reads   atomic.Int64
	samples atomic.Int64
}

func (s *countingSource) Read(out []float32) {
	s.reads.Add(1)
	s.samples.Add(int64(len(out)))
}

func quietLogger() *debug.Logger {
	return debug.New(&bytes.Buffer{}, "", 0)
}

func TestOpenRejects(t *testing.T) {
	src := &countingSource{}

	_, err := Open("alsa", src, 512, quietLogger())
	assert.EqualError(t, err, "unknown audio backend 'alsa'")

	_, err = Open(None, src, 0, quietLogger())
	assert.Error(t, err)
}

func TestNullBackendPulls(t *testing.T) {
	src := &countingSource{}
	b, err := Open(None, src, 64, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, None, b.Name())

	require.NoError(t, b.Start())
	require.NoError(t, b.Start())
	require.Eventually(t, func() bool { return src.reads.Load() >= 3 }, 2*time.Second, time.Millisecond)
	require.NoError(t, b.Close())

	assert.Zero(t, src.samples.Load()%128)

	// No reads after close
	n := src.reads.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, src.reads.Load())
	assert.NoError(t, b.Close())
}
