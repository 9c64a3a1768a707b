//go:build !headless

package audio

import (
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"

	"github.com/justyntemme/synthgraph/pkg/dsp"
)

type otoBackend struct {
	ctx       *oto.Context
	player    *oto.Player
	src       Source
	sampleBuf []float32 // audio goroutine only
	started   bool
	mutex     sync.Mutex // setup and control only
}

func newOto(src Source, frames int) (*otoBackend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   dsp.SampleRate,
		ChannelCount: dsp.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(frames) * time.Second / dsp.SampleRate,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &otoBackend{
		ctx:       ctx,
		src:       src,
		sampleBuf: make([]float32, frames*dsp.Channels),
	}
	b.player = ctx.NewPlayer(b)
	return b, nil
}

// Read implements io.Reader for the oto player
func (b *otoBackend) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	if numSamples == 0 {
		return 0, nil
	}
	if len(b.sampleBuf) < numSamples {
		b.sampleBuf = make([]float32, numSamples)
	}
	samples := b.sampleBuf[:numSamples]
	b.src.Read(samples)

	return copy(p, unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), numSamples*4)), nil
}

func (b *otoBackend) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !b.started {
		b.player.Play()
		b.started = true
	}
	return nil
}

func (b *otoBackend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	b.started = false
	if err != nil {
		return err
	}
	return b.ctx.Suspend()
}

func (b *otoBackend) Name() string { return Oto }
