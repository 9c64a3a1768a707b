package nodes

import (
	"math"
	"strconv"
	"strings"

	"github.com/justyntemme/synthgraph/pkg/dsp"
	"github.com/justyntemme/synthgraph/pkg/graph"
)

func parseFloat(s string) (float32, bool) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// parseMode handles "mode <name>" for node types with a mode enum
func parseMode[T any](msg string, lookup func(string) (T, bool)) (T, error) {
	var zero T
	fields := strings.Fields(msg)
	if len(fields) < 2 || fields[0] != "mode" {
		return zero, graph.Messagef("bad command")
	}
	m, ok := lookup(fields[1])
	if !ok {
		return zero, graph.Messagef("bad mode '%s'", fields[1])
	}
	return m, nil
}

// parseSetting handles "<name> <value>" where value is clamped to [0,1]
func parseSetting(msg string, names ...string) (string, float32, error) {
	fields := strings.Fields(msg)
	cmd := ""
	if len(fields) > 0 {
		cmd = fields[0]
	}
	known := false
	for _, n := range names {
		if n == cmd {
			known = true
			break
		}
	}
	if !known {
		return "", 0, graph.Messagef("bad command '%s'", cmd)
	}
	if len(fields) != 2 {
		return "", 0, graph.Messagef("invalid or missing number")
	}
	v, ok := parseFloat(fields[1])
	if !ok {
		return "", 0, graph.Messagef("invalid or missing number")
	}
	return cmd, float32(dsp.Clamp(float64(v), 0, 1)), nil
}
