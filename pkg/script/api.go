package script

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/justyntemme/synthgraph/pkg/engine"
	"github.com/justyntemme/synthgraph/pkg/nodes"
)

var midiKinds = map[string]bool{"note-on": true, "note-off": true, "cc": true}

func (s *Script) openCore() {
	s.L.SetGlobal("echo", s.L.NewFunction(s.echo))
	s.L.SetGlobal("clock", s.L.NewFunction(s.clock))
	s.L.SetGlobal("rand", s.L.NewFunction(s.random))
}

func (s *Script) openDSP() {
	tbl := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"new":        s.dspNew,
		"destroy":    s.dspDestroy,
		"link":       s.dspLink,
		"unlink":     s.dspUnlink,
		"set":        s.dspSet,
		"get":        s.dspGet,
		"send":       s.dspSend,
		"set_tick":   s.dspSetTick,
		"set_stream": s.dspSetStream,
		"batch":      s.dspBatch,
		"stats":      s.dspStats,
		"nodes":      s.dspNodes,
		"types":      s.dspTypes,
	})
	s.L.SetGlobal("dsp", tbl)
}

func (s *Script) openMidi() {
	tbl := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"send": s.midiSend,
	})
	s.L.SetGlobal("midi", tbl)
}

// check raises err as a Lua error
func check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}

func (s *Script) echo(L *lua.LState) int {
	var b strings.Builder
	for i := 1; i <= L.GetTop(); i++ {
		b.WriteString(L.ToStringMeta(L.Get(i)).String())
	}
	b.WriteByte('\n')
	_, err := s.out.Write([]byte(b.String()))
	check(L, err)
	return 0
}

func (s *Script) clock(L *lua.LState) int {
	L.Push(lua.LNumber(time.Since(s.start).Seconds()))
	return 1
}

// random returns an integer in [0, n) when given n, otherwise a float in [0, 1)
func (s *Script) random(L *lua.LState) int {
	if L.GetTop() == 0 {
		L.Push(lua.LNumber(s.rnd.Float64()))
		return 1
	}
	n := L.CheckInt(1)
	if n <= 0 {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(s.rnd.Intn(n)))
	return 1
}

func (s *Script) dspNew(L *lua.LState) int {
	id, err := s.graph.New(L.CheckString(1))
	check(L, err)
	L.Push(lua.LNumber(id))
	return 1
}

func (s *Script) dspDestroy(L *lua.LState) int {
	check(L, s.graph.Destroy(L.CheckInt(1)))
	return 0
}

func (s *Script) dspLink(L *lua.LState) int {
	check(L, s.graph.Link(L.CheckInt(1), L.CheckString(2), L.CheckInt(3), L.CheckString(4)))
	return 0
}

func (s *Script) dspUnlink(L *lua.LState) int {
	check(L, s.graph.Unlink(L.CheckInt(1), L.CheckString(2), L.CheckInt(3), L.CheckString(4)))
	return 0
}

func (s *Script) dspSet(L *lua.LState) int {
	check(L, s.graph.Set(L.CheckInt(1), L.CheckString(2), float32(L.CheckNumber(3))))
	return 0
}

func (s *Script) dspGet(L *lua.LState) int {
	v, err := s.graph.Get(L.CheckInt(1), L.CheckString(2))
	check(L, err)
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) dspSend(L *lua.LState) int {
	check(L, s.graph.Send(L.CheckInt(1), L.CheckString(2)))
	return 0
}

func (s *Script) dspSetTick(L *lua.LState) int {
	s.eng.SetTick(float64(L.CheckNumber(1)))
	return 0
}

func (s *Script) dspSetStream(L *lua.LState) int {
	path := ""
	if v := L.Get(1); v != lua.LNil {
		path = L.CheckString(1)
	}
	if err := s.eng.SetStream(path); err != nil {
		s.log.Error("%+v", err)
		L.RaiseError("failed to open stream")
	}
	return 0
}

// dspBatch runs fn with the graph locked. Either every call inside fn is
// applied before the next quantum renders, or fn raised an error and the
// calls made before the error stay applied.
func (s *Script) dspBatch(L *lua.LState) int {
	fn := L.CheckFunction(1)
	if s.batch {
		L.RaiseError("dsp.batch cannot be nested")
	}

	err := s.eng.Do(func(tx *engine.Tx) error {
		s.graph, s.batch = tx, true
		defer func() { s.graph, s.batch = s.eng, false }()
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) {
			L.RaiseError("%s", apiErr.Object.String())
		}
		check(L, err)
	}
	return 0
}

func (s *Script) notInBatch(L *lua.LState, name string) {
	if s.batch {
		L.RaiseError("dsp.%s is not available inside dsp.batch", name)
	}
}

func (s *Script) dspStats(L *lua.LState) int {
	s.notInBatch(L, "stats")
	st := s.eng.Stats()

	tbl := L.NewTable()
	tbl.RawSetString("nodes", lua.LNumber(st.Nodes))
	tbl.RawSetString("high_water", lua.LNumber(st.HighWater))
	tbl.RawSetString("quanta", lua.LNumber(st.Quanta))
	tbl.RawSetString("ticks", lua.LNumber(st.Ticks))
	tbl.RawSetString("cpu", lua.LNumber(st.CPULoad))
	tbl.RawSetString("stream", lua.LString(st.Stream))
	L.Push(tbl)
	return 1
}

func (s *Script) dspNodes(L *lua.LState) int {
	s.notInBatch(L, "nodes")

	list := L.NewTable()
	for _, d := range s.eng.Nodes() {
		n := L.NewTable()
		n.RawSetString("id", lua.LNumber(d.ID))
		n.RawSetString("name", lua.LString(d.Name))
		list.Append(n)
	}
	L.Push(list)
	return 1
}

func (s *Script) dspTypes(L *lua.LState) int {
	list := L.NewTable()
	for _, name := range nodes.Names() {
		list.Append(lua.LString(name))
	}
	L.Push(list)
	return 1
}

func (s *Script) midiSend(L *lua.LState) int {
	kind := L.CheckString(1)
	if !midiKinds[kind] {
		L.RaiseError("invalid midi type")
	}
	ch, b1, b2 := L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	if s.midi == nil {
		return 0
	}
	if err := s.midi.Send(kind, ch, b1, b2); err != nil {
		s.log.Warn("midi.send: %v", err)
	}
	return 0
}
