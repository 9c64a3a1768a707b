//go:build !headless

package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/dsp"
)

type portAudioBackend struct {
	stream  *portaudio.Stream
	src     Source
	started bool
	mutex   sync.Mutex
}

func newPortAudio(src Source, frames int) (*portAudioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	b := &portAudioBackend{src: src}
	stream, err := portaudio.OpenDefaultStream(0, dsp.Channels, dsp.SampleRate, frames, b.process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	b.stream = stream
	return b, nil
}

// process receives interleaved stereo buffers from the portaudio callback
func (b *portAudioBackend) process(out []float32) {
	b.src.Read(out)
}

func (b *portAudioBackend) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.started {
		return nil
	}
	if err := b.stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start portaudio stream")
	}
	b.started = true
	return nil
}

func (b *portAudioBackend) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.stream == nil {
		return nil
	}
	var err error
	if b.started {
		err = b.stream.Stop()
	}
	if cerr := b.stream.Close(); err == nil {
		err = cerr
	}
	b.stream = nil
	b.started = false
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

func (b *portAudioBackend) Name() string { return PortAudio }
