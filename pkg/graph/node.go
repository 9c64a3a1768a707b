// Package graph implements the node, port and link protocol of the
// synthesis graph.
//
// Every node owns a fixed set of named inlets and outlets. Links are stored on
// both endpoints and always change together. After a node processes a
// quantum, its outlet buffers are pushed into every linked inlet: the first
// write to an inlet in a quantum replaces the buffer and later writes mix into
// it.
package graph

import "github.com/justyntemme/synthgraph/pkg/dsp"

// Info is the static description of a node type
type Info struct {
	Name    string
	Inlets  []string
	Outlets []string
	// Sink nodes have their left and right outlets summed into the final mix.
	Sink bool
}

// Behavior is the per-type part of a node
type Behavior interface {
	// Process renders one quantum into the node's outlets
	Process(n *Node)
	// Receive handles a text command
	Receive(n *Node, msg string) error
	// Free releases type-specific resources
	Free(n *Node)
}

// Base provides the default Receive and Free for node types that need neither
type Base struct{}

// Receive reports that the node takes no messages
func (Base) Receive(*Node, string) error { return ErrUnsupported }

// Free does nothing
func (Base) Free(*Node) {}

// Node is a processing unit in the graph
type Node struct {
	Inlets  []Port
	Outlets []Port

	info     *Info
	behavior Behavior
}

// New creates a node with ports for info and no links
func New(info *Info, b Behavior) *Node {
	n := &Node{
		Inlets:   make([]Port, len(info.Inlets)),
		Outlets:  make([]Port, len(info.Outlets)),
		info:     info,
		behavior: b,
	}
	for i := range n.Inlets {
		n.Inlets[i].replace = true
	}
	return n
}

// Info returns the node's type description
func (n *Node) Info() *Info {
	return n.info
}

// Name returns the node's type name
func (n *Node) Name() string {
	return n.info.Name
}

// Behavior returns the type-specific part of the node
func (n *Node) Behavior() Behavior {
	return n.behavior
}

// InletIndex returns the index of the named inlet or -1
func (n *Node) InletIndex(name string) int {
	return indexOf(n.info.Inlets, name)
}

// OutletIndex returns the index of the named outlet or -1
func (n *Node) OutletIndex(name string) int {
	return indexOf(n.info.Outlets, name)
}

func indexOf(names []string, name string) int {
	for i, s := range names {
		if s == name {
			return i
		}
	}
	return -1
}

// Process runs the node's type-specific processing and then propagates its
// outlets to every linked inlet - no allocations
func (n *Node) Process() {
	n.behavior.Process(n)
	n.propagate()
}

func (n *Node) propagate() {
	for j := range n.Outlets {
		out := &n.Outlets[j]
		for i := 0; i < out.count; i++ {
			l := out.links[i]
			l.Node.Inlets[l.Index].receive(&out.Buf)
		}
	}

	for i := range n.Inlets {
		n.Inlets[i].replace = true
	}
}

// Receive passes a text command to the node
func (n *Node) Receive(msg string) error {
	return n.behavior.Receive(n, msg)
}

// Set fills every sample of the named inlet with value
func (n *Node) Set(inlet string, value float32) error {
	idx := n.InletIndex(inlet)
	if idx < 0 {
		return ErrBadInlet
	}
	dsp.Fill(n.Inlets[idx].Buf[:], value)
	return nil
}

// Get returns the last sample of the named outlet
func (n *Node) Get(outlet string) (float32, error) {
	idx := n.OutletIndex(outlet)
	if idx < 0 {
		return 0, ErrBadOutlet
	}
	return dsp.Last(n.Outlets[idx].Buf[:]), nil
}

// Free removes every link touching the node, self-links included, and then
// releases type-specific resources.
func (n *Node) Free() {
	for j := range n.Inlets {
		in := &n.Inlets[j]
		for in.count > 0 {
			l := in.links[in.count-1]
			l.Node.Outlets[l.Index].remove(n, j)
			in.remove(l.Node, l.Index)
		}
	}
	for j := range n.Outlets {
		out := &n.Outlets[j]
		for out.count > 0 {
			l := out.links[out.count-1]
			l.Node.Inlets[l.Index].remove(n, j)
			out.remove(l.Node, l.Index)
		}
	}
	n.behavior.Free(n)
}

// Link connects from's outlet to to's inlet. Linking a pair that is already
// linked leaves a single link. A failed link leaves the graph unchanged.
func Link(from *Node, outlet string, to *Node, inlet string) error {
	src := from.OutletIndex(outlet)
	if src < 0 {
		return ErrBadOutlet
	}
	dst := to.InletIndex(inlet)
	if dst < 0 {
		return ErrBadInlet
	}

	unlink(from, src, to, dst)

	out := &from.Outlets[src]
	in := &to.Inlets[dst]
	if out.full() || in.full() {
		return ErrMaxLinks
	}

	out.add(Edge{Node: to, Index: dst})
	in.add(Edge{Node: from, Index: src})
	return nil
}

// Unlink removes the link between from's outlet and to's inlet
func Unlink(from *Node, outlet string, to *Node, inlet string) error {
	src := from.OutletIndex(outlet)
	if src < 0 {
		return ErrBadOutlet
	}
	dst := to.InletIndex(inlet)
	if dst < 0 {
		return ErrBadInlet
	}
	if !unlink(from, src, to, dst) {
		return ErrBadLink
	}
	return nil
}

func unlink(from *Node, src int, to *Node, dst int) bool {
	if !from.Outlets[src].remove(to, dst) {
		return false
	}
	to.Inlets[dst].remove(from, src)
	return true
}
