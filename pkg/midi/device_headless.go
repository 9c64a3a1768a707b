//go:build headless

package midi

import (
	"github.com/pkg/errors"

	"github.com/justyntemme/synthgraph/pkg/debug"
)

// ErrNoDevice is returned by every port operation in a headless build
var ErrNoDevice = errors.New("built without midi device support")

func Ports() (ins, outs []string, err error) { return nil, nil, ErrNoDevice }

type In struct{}

func OpenIn(string, *Queue, *debug.Logger) (*In, error) { return nil, ErrNoDevice }
func (in *In) Name() string                             { return "" }
func (in *In) Close() error                             { return nil }

type Out struct{}

func OpenOut(string) (*Out, error)              { return nil, ErrNoDevice }
func (o *Out) Name() string                     { return "" }
func (o *Out) Send(string, int, int, int) error { return ErrNoDevice }
func (o *Out) Close() error                     { return nil }
