package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds returned by graph and Control API operations. Compare with errors.Is.
var (
	ErrBadNodeID    = errors.New("bad node id")
	ErrBadNodeName  = errors.New("bad node name")
	ErrBadInlet     = errors.New("bad inlet")
	ErrBadOutlet    = errors.New("bad outlet")
	ErrBadLink      = errors.New("bad link")
	ErrMaxLinks     = errors.New("max links exceeded")
	ErrRegistryFull = errors.New("node registry full")
	ErrBadMessage   = errors.New("bad message")
)

// MessageError is a node-specific message parse failure. Reason is the
// human-readable text reported to the caller.
type MessageError struct {
	Reason string
}

func (e *MessageError) Error() string {
	return e.Reason
}

// Is makes every MessageError match ErrBadMessage
func (e *MessageError) Is(target error) bool {
	return target == ErrBadMessage
}

// Messagef builds a MessageError from a format string
func Messagef(format string, args ...interface{}) error {
	return &MessageError{Reason: fmt.Sprintf(format, args...)}
}

// ErrUnsupported is the default Receive failure for nodes without messages
var ErrUnsupported = &MessageError{Reason: "node does not support messages"}
