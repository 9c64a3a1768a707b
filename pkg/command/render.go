package command

import (
	"github.com/codegangsta/cli"
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/debug"
	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/engine"
	"github.com/justyntemme/synthgraph/pkg/script"
)

// RenderAction runs a script with no audio device and writes the output to
// a file. Ticks are delivered between quanta, so the result does not depend
// on machine speed.
var RenderAction = func(ctx *cli.Context) error {
	conf, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if conf.Script == "" {
		return errors.New("render needs a script")
	}
	out := ctx.String("out")
	if out == "" {
		out = conf.Stream
	}
	if out == "" {
		return errors.New("render needs an output file")
	}
	seconds := ctx.Float64("seconds")
	if seconds <= 0 {
		return errors.Errorf("seconds must be positive, got %g", seconds)
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

	s := script.New(eng, script.Options{Out: Stdout, Log: log})
	defer s.Close()
	if err := s.DoFile(conf.Script); err != nil {
		return err
	}
	// The script may have opened its own stream; the output file wins
	if err := eng.SetStream(out); err != nil {
		return err
	}

	total := int(seconds*dsp.SampleRate) * dsp.Channels
	buf := make([]float32, engine.QuantumFrames)
	var acc debug.Accumulator
	for done := 0; done < total; {
		n := min(len(buf), total-done)
		eng.Read(buf[:n])
		eng.Ticker().Drain(s.Tick)
		acc.Add(buf[:n])
		done += n
	}

	if err := eng.SetStream(""); err != nil {
		return err
	}
	debug.LogStats(log, out, acc.Result(debug.NewAudioAnalyzer()))
	log.Info("%s", eng.Profiler().AudioReport())
	return nil
}

var Render = cli.Command{
	Name:  "render",
	Usage: "run a script offline and write its output to a file",
	Flags: append([]cli.Flag{
		cli.StringFlag{Name: "out, o", Usage: "output file; .wav for WAV, anything else for raw float32"},
		cli.Float64Flag{Name: "seconds", Value: 10, Usage: "length to render"},
	}, configFlags...),
	Action: errAction(RenderAction),
}
