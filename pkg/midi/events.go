// Package midi moves MIDI messages between hardware ports and the control
// script. Only note-on, note-off and control change are passed through.
package midi

import (
	"fmt"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
)

type Kind uint8

const (
	KindNoteOff Kind = iota
	KindNoteOn
	KindControlChange
)

var kindNames = [...]string{
	KindNoteOff:       "note-off",
	KindNoteOn:        "note-on",
	KindControlChange: "cc",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind resolves "note-on", "note-off" or "cc"
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Event is a channel voice message. B1 is the key or controller number, B2
// the velocity or controller value.
type Event struct {
	Kind    Kind
	Channel uint8
	B1      uint8
	B2      uint8
}

func (e Event) String() string {
	return fmt.Sprintf("%s{ch:%d, %d, %d}", e.Kind, e.Channel, e.B1, e.B2)
}

// NewEvent builds an Event from script-side values, checking their ranges
func NewEvent(kind string, channel, b1, b2 int) (Event, error) {
	k, ok := ParseKind(kind)
	if !ok {
		return Event{}, errors.Errorf("invalid midi type '%s'", kind)
	}
	if channel < 0 || channel > 15 {
		return Event{}, errors.Errorf("midi channel %d out of range", channel)
	}
	if b1 < 0 || b1 > 127 || b2 < 0 || b2 > 127 {
		return Event{}, errors.Errorf("midi data %d %d out of range", b1, b2)
	}
	return Event{Kind: k, Channel: uint8(channel), B1: uint8(b1), B2: uint8(b2)}, nil
}

// Decode extracts an Event from a raw message. A note-on with zero velocity
// stays a note-on.
func Decode(msg gomidi.Message) (Event, bool) {
	var e Event
	switch {
	case msg.GetNoteOn(&e.Channel, &e.B1, &e.B2):
		e.Kind = KindNoteOn
	case msg.GetNoteOff(&e.Channel, &e.B1, &e.B2):
		e.Kind = KindNoteOff
	case msg.GetControlChange(&e.Channel, &e.B1, &e.B2):
		e.Kind = KindControlChange
	default:
		return Event{}, false
	}
	return e, true
}

// Message encodes e as a raw message
func (e Event) Message() gomidi.Message {
	switch e.Kind {
	case KindNoteOn:
		return gomidi.NoteOn(e.Channel, e.B1, e.B2)
	case KindNoteOff:
		return gomidi.NoteOffVelocity(e.Channel, e.B1, e.B2)
	default:
		return gomidi.ControlChange(e.Channel, e.B1, e.B2)
	}
}
