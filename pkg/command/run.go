package command

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/codegangsta/cli"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/audio"
	"github.com/justyntemme/synthgraph/pkg/console"
	"github.com/justyntemme/synthgraph/pkg/debug"
	"github.com/justyntemme/synthgraph/pkg/engine"
	"github.com/justyntemme/synthgraph/pkg/midi"
	"github.com/justyntemme/synthgraph/pkg/script"
)

// RunAction plays a script through an audio backend until interrupted, or
// until the console exits when one is attached
var RunAction = func(ctx *cli.Context) error {
	conf, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(conf)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	eng := engine.New(log)
	defer eng.Close()
	if conf.Tick > 0 {
		eng.SetTick(conf.Tick)
	}
	if conf.Stream != "" {
		if err := eng.SetStream(conf.Stream); err != nil {
			return err
		}
	}

	s := script.New(eng, script.Options{Out: Stdout, Log: log})
	defer s.Close()

	if conf.MidiOut != "" {
		out, err := midi.OpenOut(conf.MidiOut)
		if err != nil {
			return err
		}
		defer out.Close()
		s.SetMidi(out)
		log.Info("midi output connected: %s", out.Name())
	}

	if conf.Script != "" {
		if err := s.DoFile(conf.Script); err != nil {
			return err
		}
	}

	backend, err := audio.Open(conf.Backend, eng, conf.Frames, log)
	if err != nil {
		return err
	}
	defer backend.Close()
	if err := backend.Start(); err != nil {
		return err
	}

	var q *midi.Queue
	if conf.MidiIn != "" {
		q = midi.NewQueue(midi.DefaultQueueSize)
		in, err := midi.OpenIn(conf.MidiIn, q, log)
		if err != nil {
			return err
		}
		defer in.Close()
	}

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stopped before the deferred s.Close so no callback reaches a closed state
	w := startWorkers(sigCtx, eng, s, q)
	defer w.Stop()

	if conf.Console {
		c, restore, err := console.Attach(s)
		if err != nil {
			return err
		}
		s.SetOutput(c.Writer())
		err = c.Run(sigCtx)
		restore()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else {
		log.Info("running, interrupt to stop")
		<-sigCtx.Done()
	}

	logStats(log, eng)
	return nil
}

// workers delivers ticks and queued midi events to the script
type workers struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// startWorkers runs the tick loop, and the midi loop when q is not nil,
// until ctx is done or Stop is called
func startWorkers(ctx context.Context, eng *engine.Engine, s *script.Script, q *midi.Queue) *workers {
	ctx, cancel := context.WithCancel(ctx)
	w := &workers{cancel: cancel}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		eng.Ticker().Run(ctx, s.Tick)
	}()

	if q != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			q.Run(ctx, func(e midi.Event) {
				s.Midi(e.Kind.String(), int(e.Channel), int(e.B1), int(e.B2))
			})
		}()
	}
	return w
}

// Stop cancels both loops and waits for any running callback to return
func (w *workers) Stop() {
	w.cancel()
	w.wg.Wait()
}

func logStats(log *debug.Logger, eng *engine.Engine) {
	st := eng.Stats()
	log.Info("stopped after %d quanta, %d ticks, %d nodes live", st.Quanta, st.Ticks, st.Nodes)
	log.Info("%s", eng.Profiler().AudioReport())
}

var Run = cli.Command{
	Name:  "run",
	Usage: "play a script through the audio device",
	Flags: append([]cli.Flag{
		cli.StringFlag{Name: "backend, b", Usage: "oto, portaudio or none"},
		cli.IntFlag{Name: "frames", Usage: "device buffer size in frames"},
		cli.StringFlag{Name: "stream", Usage: "also write output to this file"},
		cli.StringFlag{Name: "midi-in", Usage: "midi input port name"},
		cli.StringFlag{Name: "midi-out", Usage: "midi output port name"},
		cli.BoolFlag{Name: "console", Usage: "attach an interactive Lua console"},
	}, configFlags...),
	Action: errAction(RunAction),
}
