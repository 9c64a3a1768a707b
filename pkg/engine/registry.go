package engine

import (
	"container/heap"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

// freeList is a min-heap of released slot ids
type freeList []int

func (f freeList) Len() int            { return len(f) }
func (f freeList) Less(i, j int) bool  { return f[i] < f[j] }
func (f freeList) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *freeList) Push(x interface{}) { *f = append(*f, x.(int)) }
func (f *freeList) Pop() interface{} {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}

// Registry owns the node slots. New nodes always take the lowest free id.
// Slots at or above the high-water mark have never been used.
type Registry struct {
	slots [dsp.MaxNodes]*graph.Node
	free  freeList
	hwm   int
	count int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{free: make(freeList, 0, 64)}
}

// Insert stores n in the lowest free slot and returns its id
func (r *Registry) Insert(n *graph.Node) (int, error) {
	var id int
	switch {
	case r.free.Len() > 0:
		id = heap.Pop(&r.free).(int)
	case r.hwm < dsp.MaxNodes:
		id = r.hwm
		r.hwm++
	default:
		return -1, graph.ErrRegistryFull
	}
	r.slots[id] = n
	r.count++
	return id, nil
}

// Get returns the node at id
func (r *Registry) Get(id int) (*graph.Node, error) {
	if id < 0 || id >= r.hwm || r.slots[id] == nil {
		return nil, graph.ErrBadNodeID
	}
	return r.slots[id], nil
}

// Remove empties the slot at id and returns the node that was there
func (r *Registry) Remove(id int) (*graph.Node, error) {
	n, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	r.slots[id] = nil
	heap.Push(&r.free, id)
	r.count--
	return n, nil
}

// Slots returns every slot below the high-water mark. Empty slots are nil.
func (r *Registry) Slots() []*graph.Node {
	return r.slots[:r.hwm]
}

// HighWater returns one past the highest id ever used
func (r *Registry) HighWater() int {
	return r.hwm
}

// Len returns the number of live nodes
func (r *Registry) Len() int {
	return r.count
}
