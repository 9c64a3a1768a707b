package engine

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/dsp"
)

// sink receives interleaved stereo float32 samples
type sink interface {
	write(samples []float32) error
	close() error
}

// rawSink writes little-endian float32 samples with no header
type rawSink struct {
	f       *os.File
	w       *bufio.Writer
	scratch []byte
}

func newRawSink(f *os.File) *rawSink {
	return &rawSink{f: f, w: bufio.NewWriterSize(f, 64*1024)}
}

func (s *rawSink) write(samples []float32) error {
	if cap(s.scratch) < len(samples)*4 {
		s.scratch = make([]byte, len(samples)*4)
	}
	buf := s.scratch[:len(samples)*4]
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := s.w.Write(buf)
	return err
}

func (s *rawSink) close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// wavSink writes 16-bit PCM WAV through go-audio/wav
type wavSink struct {
	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer
}

const wavBitDepth = 16

func newWavSink(f *os.File) *wavSink {
	return &wavSink{
		f:   f,
		enc: wav.NewEncoder(f, dsp.SampleRate, wavBitDepth, dsp.Channels, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: dsp.Channels, SampleRate: dsp.SampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}
}

func (s *wavSink) write(samples []float32) error {
	if cap(s.buf.Data) < len(samples) {
		s.buf.Data = make([]int, len(samples))
	}
	s.buf.Data = s.buf.Data[:len(samples)]
	for i, v := range samples {
		s.buf.Data[i] = int(dsp.Clamp(float64(v), -1, 1) * math.MaxInt16)
	}
	return s.enc.Write(s.buf)
}

func (s *wavSink) close() error {
	if err := s.enc.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// Tee copies the rendered output stream to a file. A path ending in .wav
// gets a WAV file; anything else gets raw interleaved float32.
type Tee struct {
	mu   sync.Mutex
	sink sink
	path string
	err  error
}

// Open starts teeing to path. A file that is still open is closed first and
// its error dropped; call Close beforehand to see it. Open fails only when
// path cannot be created.
func (t *Tee) Open(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeLocked()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to open stream")
	}
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		t.sink = newWavSink(f)
	} else {
		t.sink = newRawSink(f)
	}
	t.path = path
	return nil
}

// Write appends samples to the open file, if any. After a write error the
// tee stops writing until it is reopened or closed.
func (t *Tee) Write(samples []float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sink == nil || t.err != nil {
		return
	}
	t.err = t.sink.write(samples)
}

// Path returns the open file path, or "" when closed
func (t *Tee) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Close flushes and closes the open file. It reports the first write error
// seen since the file was opened.
func (t *Tee) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

func (t *Tee) closeLocked() error {
	if t.sink == nil {
		return nil
	}
	werr := t.err
	cerr := t.sink.close()
	path := t.path
	t.sink, t.path, t.err = nil, "", nil

	if werr != nil {
		return errors.Wrapf(werr, "failed to write stream %s", path)
	}
	if cerr != nil {
		return errors.Wrapf(cerr, "failed to close stream %s", path)
	}
	return nil
}
