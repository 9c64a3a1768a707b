package audio

import (
	"sync"
	"time"

	"github.com/justyntemme/synthgraph/pkg/dsp"
)

// nullBackend pulls audio at the real-time rate and discards it. It keeps the
// engine clock, and so the tick scheduler, running without a device.
type nullBackend struct {
	src    Source
	buf    []float32
	period time.Duration

	mutex sync.Mutex
	stop  chan struct{}
	done  chan struct{}
}

func newNull(src Source, frames int) *nullBackend {
	return &nullBackend{
		src:    src,
		buf:    make([]float32, frames*dsp.Channels),
		period: time.Duration(frames) * time.Second / dsp.SampleRate,
	}
}

func (b *nullBackend) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.stop != nil {
		return nil
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.loop(b.stop, b.done)
	return nil
}

func (b *nullBackend) loop(stop, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(b.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			b.src.Read(b.buf)
		}
	}
}

func (b *nullBackend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.stop == nil {
		return nil
	}
	close(b.stop)
	<-b.done
	b.stop, b.done = nil, nil
	return nil
}

func (b *nullBackend) Name() string { return None }
