// Package oscillator provides audio oscillators for synthesis
package oscillator

import (
	"math"
	"math/rand"
)

// Waveform selects the shape produced from a phase value.
type Waveform int

const (
	// Phase outputs the raw phase ramp in [0,1]
	Phase Waveform = iota
	// Sine outputs sin(2*pi*phase)
	Sine
	// Saw outputs a falling ramp from 1 to -1
	Saw
	// Pulse outputs -1 for the first half of the cycle and 1 for the second
	Pulse
	// Noise outputs white noise and ignores phase
	Noise
)

var waveformNames = [...]string{"phase", "sine", "saw", "pulse", "noise"}

// String returns the message name of the waveform
func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return "unknown"
	}
	return waveformNames[w]
}

// ParseWaveform resolves a waveform by name
func ParseWaveform(name string) (Waveform, bool) {
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), true
		}
	}
	return 0, false
}

// Accumulator integrates frequency into a phase wrapped to [0,1)
type Accumulator struct {
	phase      float64
	sampleTime float64
}

// NewAccumulator creates a phase accumulator at phase 0
func NewAccumulator(sampleRate float64) *Accumulator {
	return &Accumulator{sampleTime: 1.0 / sampleRate}
}

// Phase returns the current phase
func (a *Accumulator) Phase() float64 {
	return a.phase
}

// SetPhase sets the oscillator phase (0-1)
func (a *Accumulator) SetPhase(phase float64) {
	a.phase = phase - math.Floor(phase) // Wrap to 0-1
}

// Reset resets the oscillator phase to 0
func (a *Accumulator) Reset() {
	a.phase = 0.0
}

// Advance returns the current phase and then moves it forward by |freq| for
// one sample. Negative frequencies run forward too.
func (a *Accumulator) Advance(freq float64) float64 {
	p := a.phase
	a.phase += math.Abs(freq) * a.sampleTime
	if a.phase >= 1.0 {
		a.phase -= math.Floor(a.phase)
	}
	return p
}

// ProcessPhase writes one phase value per frequency sample - no allocations
func (a *Accumulator) ProcessPhase(freq, phase []float32) {
	for i := range phase {
		phase[i] = float32(a.Advance(float64(freq[i])))
	}
}

// Shaper maps phase values to waveform samples
type Shaper struct {
	rand *rand.Rand
}

// NewShaper creates a waveform shaper using src for noise
func NewShaper(src rand.Source) *Shaper {
	return &Shaper{rand: rand.New(src)}
}

// Sample computes a single output sample for the given phase
func (s *Shaper) Sample(w Waveform, phase float32) float32 {
	p := phase
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}

	switch w {
	case Phase:
		return p
	case Sine:
		return float32(math.Sin(float64(p) * 2 * math.Pi))
	case Saw:
		return 1.0 - 2.0*p
	case Pulse:
		if p < 0.5 {
			return -1.0
		}
		return 1.0
	case Noise:
		return 1.0 - 2.0*s.rand.Float32()
	}
	return 0
}

// Process fills out from the phase buffer - no allocations
func (s *Shaper) Process(w Waveform, phase, out []float32) {
	for i := range out {
		out[i] = s.Sample(w, phase[i])
	}
}
