// Package filter provides digital signal processing filters
package filter

import "math"

// Passes is the number of integrator passes run per sample. Running the
// Chamberlin core several times at a divided frequency keeps it stable up to a
// higher cutoff.
const Passes = 3

// Mode selects which SVF output is written
type Mode int

const (
	Lowpass Mode = iota
	Highpass
	Bandpass
	Notch
)

var modeNames = [...]string{"lowpass", "highpass", "bandpass", "notch"}

// String returns the message name of the mode
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode resolves a mode by name
func ParseMode(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return 0, false
}

// SVFOutputs holds all filter outputs
type SVFOutputs struct {
	Lowpass  float32
	Highpass float32
	Bandpass float32
	Notch    float32
}

// Select returns the output chosen by mode
func (o SVFOutputs) Select(m Mode) float32 {
	switch m {
	case Highpass:
		return o.Highpass
	case Bandpass:
		return o.Bandpass
	case Notch:
		return o.Notch
	}
	return o.Lowpass
}

// SVF implements a multi-pass trapezoidal state variable filter with
// simultaneous lowpass, highpass, bandpass, and notch outputs
type SVF struct {
	sampleTime float32
	maxFreq    float32

	// integrator state
	bp float32
	lp float32
}

// NewSVF creates a new state variable filter
func NewSVF(sampleRate float64) *SVF {
	return &SVF{
		sampleTime: float32(1.0 / sampleRate),
		maxFreq:    float32(sampleRate * 0.130 * Passes),
	}
}

// MaxFrequency returns the ceiling cutoff frequencies are clamped to
func (s *SVF) MaxFrequency() float32 {
	return s.maxFreq
}

// Reset clears the filter state
func (s *SVF) Reset() {
	s.bp = 0
	s.lp = 0
}

// ProcessSample processes a single sample and returns all outputs. q is mapped
// to damping 1/max(q, 0.5).
func (s *SVF) ProcessSample(input, freq, q float32) SVFOutputs {
	q1 := 1.0 / float32(math.Max(float64(q), 0.5))
	f1 := float32(math.Min(math.Abs(float64(freq)), float64(s.maxFreq))) / Passes
	f1 = 2 * math.Pi * f1 * s.sampleTime

	bp := s.bp
	lp := s.lp
	var hp float32
	for i := 0; i < Passes; i++ {
		lp = lp + f1*bp
		hp = input - lp - q1*bp
		bp = f1*hp + bp
	}
	s.bp = bp
	s.lp = lp

	return SVFOutputs{
		Lowpass:  lp,
		Highpass: hp,
		Bandpass: bp,
		Notch:    hp + lp,
	}
}

// Process filters in into out with per-sample frequency and q - no allocations
func (s *SVF) Process(mode Mode, in, freq, q, out []float32) {
	for i := range out {
		out[i] = s.ProcessSample(in[i], freq[i], q[i]).Select(mode)
	}
}
