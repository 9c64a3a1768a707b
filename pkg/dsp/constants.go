// Package dsp provides digital signal processing constants and buffer utilities
// shared by the node graph and its kernels.
package dsp

// Engine-wide audio constants. These are part of the processing contract and
// are not configurable at runtime.
const (
	SampleRate = 44100            // Hz
	SampleTime = 1.0 / SampleRate // seconds per sample

	// Quantum is the number of samples every node processes per evaluation pass.
	Quantum = 64
	// QuantumTime is the wall time covered by one quantum, in seconds.
	QuantumTime = Quantum * SampleTime

	// Channels is the channel count of the final mixdown (interleaved stereo).
	Channels = 2

	// MaxLinks bounds the link table of every port.
	MaxLinks = 32
	// MaxNodes bounds the node registry.
	MaxNodes = 10000
)

// Phase constants
const (
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966
)

// Denormal is the magnitude below which recursive filter state is flushed to zero.
const Denormal = 1e-37
