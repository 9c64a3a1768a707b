// Package script runs the Lua control program that builds and drives the
// graph. A Script owns one Lua state; every entry point (loading code, tick
// and MIDI callbacks, console input) runs under the script lock, so callbacks
// never interleave.
//
// Globals installed in the state:
//
//	dsp.new(name) -> id          dsp.destroy(id)
//	dsp.link(a, outlet, b, inlet) dsp.unlink(a, outlet, b, inlet)
//	dsp.set(id, inlet, value)    dsp.get(id, outlet) -> value
//	dsp.send(id, msg)            dsp.set_tick(seconds)
//	dsp.set_stream(path|nil)     dsp.batch(fn)
//	dsp.stats() -> table         dsp.nodes() -> table
//	dsp.types() -> table
//	midi.send(type, channel, b1, b2)
//	echo(...)  clock()  rand([n])
//
// The program may define on_tick() and on_midi(type, channel, b1, b2).
package script

import (
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/justyntemme/synthgraph/pkg/debug"
	"github.com/justyntemme/synthgraph/pkg/engine"
)

// Callback names looked up in the Lua globals
const (
	TickCallback = "on_tick"
	MidiCallback = "on_midi"
)

// MidiSender delivers outgoing MIDI messages. kind is "note-on", "note-off"
// or "cc".
type MidiSender interface {
	Send(kind string, channel, b1, b2 int) error
}

// Options configures a Script
type Options struct {
	// Out receives echo output. Defaults to os.Stdout.
	Out io.Writer
	// Log receives callback errors. Defaults to debug.Default().
	Log *debug.Logger
	// Midi handles midi.send. Without it midi.send is a no-op.
	Midi MidiSender
	// Seed seeds rand(). Zero seeds from the clock.
	Seed int64
}

// Script is a Lua control program bound to an engine
type Script struct {
	mu    sync.Mutex
	L     *lua.LState
	eng   *engine.Engine
	graph engine.Graph // eng, or the open transaction inside dsp.batch
	batch bool

	out   io.Writer
	log   *debug.Logger
	midi  MidiSender
	rnd   *rand.Rand
	start time.Time
}

// New creates a Script with a fresh Lua state bound to eng
func New(eng *engine.Engine, opts Options) *Script {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = debug.Default()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	s := &Script{
		L:     lua.NewState(),
		eng:   eng,
		graph: eng,
		out:   opts.Out,
		log:   opts.Log,
		midi:  opts.Midi,
		rnd:   rand.New(rand.NewSource(opts.Seed)),
		start: time.Now(),
	}
	s.openCore()
	s.openDSP()
	s.openMidi()
	return s
}

// SetMidi replaces the outgoing MIDI handler
func (s *Script) SetMidi(m MidiSender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.midi = m
}

// SetOutput redirects echo output
func (s *Script) SetOutput(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = w
}

// DoFile runs a Lua file
func (s *Script) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.L.DoFile(path); err != nil {
		return errors.Wrapf(err, "failed to run script '%s'", path)
	}
	return nil
}

// DoString runs a chunk of Lua source
func (s *Script) DoString(src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.L.DoString(src)
}

// Eval runs a console line. A line that parses as an expression has its
// values echoed.
func (s *Script) Eval(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := s.L.GetTop()
	defer s.L.SetTop(top)

	fn, err := s.L.LoadString("return " + line)
	if err != nil {
		return s.L.DoString(line)
	}
	s.L.Push(fn)
	if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
		return err
	}
	n := s.L.GetTop() - top
	if n > 0 {
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = s.L.ToStringMeta(s.L.Get(top + 1 + i)).String()
		}
		io.WriteString(s.out, strings.Join(parts, "\t")+"\n")
	}
	return nil
}

// Tick calls on_tick if the program defines it
func (s *Script) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.callGlobal(TickCallback); err != nil {
		s.log.Error("%s: %v", TickCallback, err)
	}
}

// Midi calls on_midi(kind, channel, b1, b2) if the program defines it
func (s *Script) Midi(kind string, channel, b1, b2 int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.callGlobal(MidiCallback,
		lua.LString(kind), lua.LNumber(channel), lua.LNumber(b1), lua.LNumber(b2))
	if err != nil {
		s.log.Error("%s: %v", MidiCallback, err)
	}
}

func (s *Script) callGlobal(name string, args ...lua.LValue) error {
	fn, ok := s.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	return s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
}

// Close releases the Lua state
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.L.Close()
}
