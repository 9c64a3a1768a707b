// Package nodes provides the node types that can be created by name.
package nodes

import (
	"sort"

	"github.com/justyntemme/synthgraph/pkg/graph"
)

// Constructor allocates a node with its default port wiring and parameters
type Constructor func() *graph.Node

type entry struct {
	info *graph.Info
	new  Constructor
}

var table = map[string]entry{
	dacInfo.Name:    {dacInfo, NewDAC},
	oscInfo.Name:    {oscInfo, NewOsc},
	svfInfo.Name:    {svfInfo, NewSVF},
	mathInfo.Name:   {mathInfo, NewMath},
	lineInfo.Name:   {lineInfo, NewLine},
	reverbInfo.Name: {reverbInfo, NewReverb},
	delayInfo.Name:  {delayInfo, NewDelay},
	shaperInfo.Name: {shaperInfo, NewShaper},
}

// Lookup returns the constructor for a type name
func Lookup(name string) (Constructor, bool) {
	e, ok := table[name]
	if !ok {
		return nil, false
	}
	return e.new, true
}

// New creates a node by type name
func New(name string) (*graph.Node, error) {
	ctor, ok := Lookup(name)
	if !ok {
		return nil, graph.ErrBadNodeName
	}
	return ctor(), nil
}

// Describe returns the static description of a type
func Describe(name string) (*graph.Info, bool) {
	e, ok := table[name]
	if !ok {
		return nil, false
	}
	return e.info, true
}

// Names returns every registered type name, sorted
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
