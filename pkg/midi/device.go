//go:build !headless

package midi

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/justyntemme/synthgraph/pkg/debug"
)

// match picks the port whose name equals name, or failing that the first one
// containing it, ignoring case
func match[P interface{ String() string }](ports []P, name string) (P, bool) {
	for _, p := range ports {
		if p.String() == name {
			return p, true
		}
	}
	lower := strings.ToLower(name)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), lower) {
			return p, true
		}
	}
	var zero P
	return zero, false
}

// Ports lists available input and output port names
func Ports() (ins, outs []string, err error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open midi driver")
	}
	defer drv.Close()

	inPorts, err := drv.Ins()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list midi inputs")
	}
	outPorts, err := drv.Outs()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list midi outputs")
	}
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// In listens on a hardware input and queues decoded events
type In struct {
	drv  *rtmididrv.Driver
	port drivers.In
	stop func()
	log  *debug.Logger
}

// OpenIn opens the named input and starts queueing its events on q
func OpenIn(name string, q *Queue, log *debug.Logger) (*In, error) {
	if log == nil {
		log = debug.Default()
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open midi driver")
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, errors.Wrap(err, "failed to list midi inputs")
	}
	port, ok := match(ins, name)
	if !ok {
		drv.Close()
		return nil, errors.Errorf("midi input %q not found", name)
	}
	if err := port.Open(); err != nil {
		drv.Close()
		return nil, errors.Wrapf(err, "failed to open midi input %q", port.String())
	}

	in := &In{drv: drv, port: port, log: log}
	stop, err := gomidi.ListenTo(port, in.receive(q), gomidi.HandleError(func(err error) {
		log.Warn("midi input %s: %v", port.String(), err)
	}))
	if err != nil {
		port.Close()
		drv.Close()
		return nil, errors.Wrapf(err, "failed to listen on midi input %q", port.String())
	}
	in.stop = stop
	log.Info("midi input connected: %s", port.String())
	return in, nil
}

func (in *In) receive(q *Queue) func(gomidi.Message, int32) {
	return func(msg gomidi.Message, _ int32) {
		e, ok := Decode(msg)
		if !ok {
			return
		}
		if !q.Add(e) {
			in.log.Warn("midi queue full, dropped %s", e)
		}
	}
}

func (in *In) Name() string { return in.port.String() }

func (in *In) Close() error {
	in.stop()
	err := in.port.Close()
	if cerr := in.drv.Close(); err == nil {
		err = cerr
	}
	return err
}

// Out sends events to a hardware output
type Out struct {
	mu   sync.Mutex
	drv  *rtmididrv.Driver
	port drivers.Out
	send func(gomidi.Message) error
}

// OpenOut opens the named output
func OpenOut(name string) (*Out, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open midi driver")
	}
	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, errors.Wrap(err, "failed to list midi outputs")
	}
	port, ok := match(outs, name)
	if !ok {
		drv.Close()
		return nil, errors.Errorf("midi output %q not found", name)
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		drv.Close()
		return nil, errors.Wrapf(err, "failed to open midi output %q", port.String())
	}
	return &Out{drv: drv, port: port, send: send}, nil
}

func (o *Out) Name() string { return o.port.String() }

// Send validates and writes one message
func (o *Out) Send(kind string, channel, b1, b2 int) error {
	e, err := NewEvent(kind, channel, b1, b2)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.send(e.Message())
}

func (o *Out) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	err := o.port.Close()
	if cerr := o.drv.Close(); err == nil {
		err = cerr
	}
	return err
}
