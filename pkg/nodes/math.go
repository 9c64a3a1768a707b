package nodes

import (
	"math"
	"strings"

	"github.com/justyntemme/synthgraph/pkg/graph"
)

// MaxOps bounds the length of a math chain, including the leading set
const MaxOps = 16

type opKind int

const (
	opSet opKind = iota
	opAdd
	opMul
	opDiv
	opSub
	opPow
	opMin
	opMax
)

var opNames = map[string]opKind{
	"+":   opAdd,
	"*":   opMul,
	"/":   opDiv,
	"-":   opSub,
	"^":   opPow,
	"min": opMin,
	"max": opMax,
}

// op applies kind with either an inlet buffer (inlet >= 0) or a constant
type op struct {
	kind  opKind
	inlet int
	value float32
}

var mathInfo = &graph.Info{
	Name:    "math",
	Inlets:  []string{"in", "in2", "in3"},
	Outlets: []string{"out"},
}

type mathNode struct {
	graph.Base
	ops   [MaxOps]op
	count int
}

// NewMath creates a math node running "set in"
func NewMath() *graph.Node {
	m := &mathNode{}
	m.ops[0] = op{kind: opSet, inlet: 0}
	m.count = 1
	return graph.New(mathInfo, m)
}

func apply(kind opKind, a, b float32) float32 {
	switch kind {
	case opSet:
		return b
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	case opPow:
		return float32(math.Pow(float64(a), float64(b)))
	case opMin:
		if b < a {
			return b
		}
		return a
	case opMax:
		if b > a {
			return b
		}
		return a
	}
	return a
}

func (m *mathNode) Process(n *graph.Node) {
	out := &n.Outlets[0].Buf
	for j := 0; j < m.count; j++ {
		o := m.ops[j]
		if o.inlet >= 0 {
			in := &n.Inlets[o.inlet].Buf
			for i := range out {
				out[i] = apply(o.kind, out[i], in[i])
			}
		} else {
			for i := range out {
				out[i] = apply(o.kind, out[i], o.value)
			}
		}
	}
}

func operand(n *graph.Node, s string) (op, error) {
	if idx := n.InletIndex(s); idx >= 0 {
		return op{inlet: idx}, nil
	}
	v, ok := parseFloat(s)
	if !ok {
		return op{}, graph.Messagef("expected inlet or number, got '%s'", s)
	}
	return op{inlet: -1, value: v}, nil
}

// Receive handles "set <operand> (<op> <operand>)*". The chain is replaced
// only when the whole message parses.
func (m *mathNode) Receive(n *graph.Node, msg string) error {
	fields := strings.Fields(msg)
	if len(fields) == 0 || fields[0] != "set" {
		return graph.Messagef("bad command")
	}

	first := ""
	if len(fields) > 1 {
		first = fields[1]
	}
	var ops [MaxOps]op
	o, err := operand(n, first)
	if err != nil {
		return err
	}
	o.kind = opSet
	ops[0] = o
	count := 1

	// first parsed, so fields has at least two entries
	rest := fields[2:]
	for i := 0; i < len(rest); i += 2 {
		if i+1 >= len(rest) {
			return graph.Messagef("missing number or inlet")
		}
		kind, ok := opNames[rest[i]]
		if !ok {
			return graph.Messagef("bad op '%s'", rest[i])
		}
		o, err := operand(n, rest[i+1])
		if err != nil {
			return err
		}
		if count >= MaxOps {
			return graph.Messagef("too many operations")
		}
		o.kind = kind
		ops[count] = o
		count++
	}

	m.ops = ops
	m.count = count
	return nil
}
