package engine

import (
	"github.com/justyntemme/synthgraph/pkg/graph"
	"github.com/justyntemme/synthgraph/pkg/nodes"
)

// Graph is the set of graph operations available to control code. Both
// *Engine, where each call is atomic, and *Tx, where a group of calls is
// atomic, implement it.
type Graph interface {
	New(name string) (int, error)
	Destroy(id int) error
	Link(src int, outlet string, dst int, inlet string) error
	Unlink(src int, outlet string, dst int, inlet string) error
	Set(id int, inlet string, value float32) error
	Get(id int, outlet string) (float32, error)
	Send(id int, msg string) error
}

// New creates a node of the named type and returns its id
func (e *Engine) New(name string) (int, error) {
	ctor, ok := nodes.Lookup(name)
	if !ok {
		return -1, graph.ErrBadNodeName
	}
	// Construction allocates, so it happens outside the lock
	n := ctor()

	e.mu.Lock()
	id, err := e.reg.Insert(n)
	e.mu.Unlock()
	if err != nil {
		return -1, err
	}
	e.log.Debug("new %s -> %d", name, id)
	return id, nil
}

// Destroy unlinks and frees a node
func (e *Engine) Destroy(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroy(id)
}

// Link connects src's outlet to dst's inlet
func (e *Engine) Link(src int, outlet string, dst int, inlet string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.link(src, outlet, dst, inlet)
}

// Unlink removes the link between src's outlet and dst's inlet
func (e *Engine) Unlink(src int, outlet string, dst int, inlet string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unlink(src, outlet, dst, inlet)
}

// Set fills a node inlet with a constant value
func (e *Engine) Set(id int, inlet string, value float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set(id, inlet, value)
}

// Get returns the last sample of a node outlet
func (e *Engine) Get(id int, outlet string) (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.get(id, outlet)
}

// Send passes a text command to a node
func (e *Engine) Send(id int, msg string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(id, msg)
}

// SetTick sets the tick interval in seconds
func (e *Engine) SetTick(seconds float64) {
	e.ticker.SetInterval(seconds)
}

// SetStream starts teeing output to path. An empty path or "none" closes
// the current stream and reports its write error, if any. When switching
// files the old file's error is logged and only a failure to open path is
// returned.
func (e *Engine) SetStream(path string) error {
	if path == "" || path == "none" {
		if old := e.tee.Path(); old != "" {
			e.log.Info("stream closed: %s", old)
		}
		return e.tee.Close()
	}
	if err := e.tee.Close(); err != nil {
		e.log.Warn("%v", err)
	}
	if err := e.tee.Open(path); err != nil {
		return err
	}
	e.log.Info("stream opened: %s", path)
	return nil
}

// Do runs fn with the graph lock held. Calls made through tx are applied
// together, with no quantum rendered in between.
func (e *Engine) Do(fn func(tx *Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&Tx{e: e})
}

func (e *Engine) destroy(id int) error {
	n, err := e.reg.Remove(id)
	if err != nil {
		return err
	}
	n.Free()
	e.log.Debug("destroy %s %d", n.Name(), id)
	return nil
}

func (e *Engine) link(src int, outlet string, dst int, inlet string) error {
	from, err := e.reg.Get(src)
	if err != nil {
		return err
	}
	to, err := e.reg.Get(dst)
	if err != nil {
		return err
	}
	return graph.Link(from, outlet, to, inlet)
}

func (e *Engine) unlink(src int, outlet string, dst int, inlet string) error {
	from, err := e.reg.Get(src)
	if err != nil {
		return err
	}
	to, err := e.reg.Get(dst)
	if err != nil {
		return err
	}
	return graph.Unlink(from, outlet, to, inlet)
}

func (e *Engine) set(id int, inlet string, value float32) error {
	n, err := e.reg.Get(id)
	if err != nil {
		return err
	}
	return n.Set(inlet, value)
}

func (e *Engine) get(id int, outlet string) (float32, error) {
	n, err := e.reg.Get(id)
	if err != nil {
		return 0, err
	}
	return n.Get(outlet)
}

func (e *Engine) send(id int, msg string) error {
	n, err := e.reg.Get(id)
	if err != nil {
		return err
	}
	return n.Receive(msg)
}

// Tx applies graph operations while Engine.Do holds the lock. It is only
// valid inside the Do callback.
type Tx struct {
	e *Engine
}

// New creates a node. Unlike Engine.New it constructs under the lock.
func (tx *Tx) New(name string) (int, error) {
	n, err := nodes.New(name)
	if err != nil {
		return -1, err
	}
	id, err := tx.e.reg.Insert(n)
	if err != nil {
		return -1, err
	}
	tx.e.log.Debug("new %s -> %d", name, id)
	return id, nil
}

// Destroy unlinks and frees a node
func (tx *Tx) Destroy(id int) error { return tx.e.destroy(id) }

// Link connects src's outlet to dst's inlet
func (tx *Tx) Link(src int, outlet string, dst int, inlet string) error {
	return tx.e.link(src, outlet, dst, inlet)
}

// Unlink removes the link between src's outlet and dst's inlet
func (tx *Tx) Unlink(src int, outlet string, dst int, inlet string) error {
	return tx.e.unlink(src, outlet, dst, inlet)
}

// Set fills a node inlet with a constant value
func (tx *Tx) Set(id int, inlet string, value float32) error { return tx.e.set(id, inlet, value) }

// Get returns the last sample of a node outlet
func (tx *Tx) Get(id int, outlet string) (float32, error) { return tx.e.get(id, outlet) }

// Send passes a text command to a node
func (tx *Tx) Send(id int, msg string) error { return tx.e.send(id, msg) }

// PortDesc describes one port of a live node
type PortDesc struct {
	Name  string
	Links int
}

// NodeDesc describes a live node
type NodeDesc struct {
	ID      int
	Name    string
	Inlets  []PortDesc
	Outlets []PortDesc
}

func describe(id int, n *graph.Node) NodeDesc {
	info := n.Info()
	d := NodeDesc{
		ID:      id,
		Name:    info.Name,
		Inlets:  make([]PortDesc, len(info.Inlets)),
		Outlets: make([]PortDesc, len(info.Outlets)),
	}
	for i, name := range info.Inlets {
		d.Inlets[i] = PortDesc{Name: name, Links: n.Inlets[i].LinkCount()}
	}
	for i, name := range info.Outlets {
		d.Outlets[i] = PortDesc{Name: name, Links: n.Outlets[i].LinkCount()}
	}
	return d
}

// Describe returns the description of a live node
func (e *Engine) Describe(id int) (NodeDesc, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.reg.Get(id)
	if err != nil {
		return NodeDesc{}, err
	}
	return describe(id, n), nil
}

// Nodes describes every live node in id order
func (e *Engine) Nodes() []NodeDesc {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []NodeDesc
	for id, n := range e.reg.Slots() {
		if n != nil {
			out = append(out, describe(id, n))
		}
	}
	return out
}
