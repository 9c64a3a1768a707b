// Package audio connects the engine's pull-based Read to an output device.
// Every backend calls Source.Read from its own audio goroutine.
package audio

import (
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/debug"
)

// Source produces interleaved stereo float32 samples on demand
type Source interface {
	Read(out []float32)
}

// Backend is a started or startable audio output
type Backend interface {
	Start() error
	Close() error
	Name() string
}

// Backend names accepted by Open
const (
	Oto       = "oto"
	PortAudio = "portaudio"
	None      = "none"
)

// ErrNoDevice is returned for device backends in a headless build
var ErrNoDevice = errors.New("built without audio device support")

// Open creates the named backend pulling frames-sized chunks from src. It
// does not start playback.
func Open(name string, src Source, frames int, log *debug.Logger) (Backend, error) {
	if log == nil {
		log = debug.Default()
	}
	if frames <= 0 {
		return nil, errors.Errorf("invalid buffer size %d", frames)
	}

	var (
		b   Backend
		err error
	)
	switch name {
	case Oto:
		b, err = newOto(src, frames)
	case PortAudio:
		b, err = newPortAudio(src, frames)
	case None:
		b = newNull(src, frames)
	default:
		return nil, errors.Errorf("unknown audio backend '%s'", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s backend", name)
	}
	log.Info("audio backend %s ready, %d frames per buffer", b.Name(), frames)
	return b, nil
}
