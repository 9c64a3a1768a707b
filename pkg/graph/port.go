package graph

import "github.com/justyntemme/synthgraph/pkg/dsp"

// Edge is one end of a connection: the node on the other side and the index
// of the port on that node.
type Edge struct {
	Node  *Node
	Index int
}

// Port is a node inlet or outlet. Its link table is bounded by dsp.MaxLinks
// and stored inline so linking never allocates.
type Port struct {
	Buf [dsp.Quantum]float32

	links   [dsp.MaxLinks]Edge
	count   int
	replace bool
}

// Links returns the active links. The slice aliases the port's table and is
// only valid until the next link change.
func (p *Port) Links() []Edge {
	return p.links[:p.count]
}

// LinkCount returns the number of active links
func (p *Port) LinkCount() int {
	return p.count
}

// Linked reports whether any link touches this port
func (p *Port) Linked() bool {
	return p.count > 0
}

func (p *Port) full() bool {
	return p.count == dsp.MaxLinks
}

func (p *Port) add(l Edge) {
	p.links[p.count] = l
	p.count++
}

// remove deletes the link to (node, index), moving the last entry into its
// place. It reports whether the link existed.
func (p *Port) remove(node *Node, index int) bool {
	for i := 0; i < p.count; i++ {
		if p.links[i].Node == node && p.links[i].Index == index {
			p.count--
			p.links[i] = p.links[p.count]
			p.links[p.count] = Edge{}
			return true
		}
	}
	return false
}

// receive pushes an outlet buffer into this inlet. The first write after a
// propagation replaces, later writes mix.
func (p *Port) receive(src *[dsp.Quantum]float32) {
	if p.replace {
		p.Buf = *src
		p.replace = false
		return
	}
	dsp.Add(p.Buf[:], src[:])
}
