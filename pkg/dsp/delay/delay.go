// Package delay provides delay line implementations for audio effects
package delay

import "math"

// Size is the ring length in samples. It must stay a power of two so indices
// can be wrapped with Mask.
const (
	Size = 65536
	Mask = Size - 1
)

// Line implements a feedback delay line with a linear-interpolated fractional
// read. Lag 0 is the sample currently being written, so a zero delay passes
// the input straight through.
type Line struct {
	buffer   [Size]float32
	writePos int
}

// New creates a new, silent delay line
func New() *Line {
	return &Line{}
}

// Reset clears the delay buffer
func (d *Line) Reset() {
	d.buffer = [Size]float32{}
	d.writePos = 0
}

// at returns the sample written lag samples ago. Lag 0 is the pending input.
func (d *Line) at(lag int, input float32) float32 {
	if lag == 0 {
		return input
	}
	return d.buffer[(d.writePos-lag)&Mask]
}

// Read gets the sample delaySamples behind the pending input
func (d *Line) Read(input float32, delaySamples float64) float32 {
	delaySamples = math.Abs(delaySamples)
	if delaySamples > Size-2 {
		delaySamples = Size - 2
	}
	lag := int(delaySamples)
	frac := float32(delaySamples - float64(lag))

	s1 := d.at(lag, input)
	s2 := d.at(lag+1, input)

	// Linear interpolation
	return s1 + (s2-s1)*frac
}

// Write stores a sample and advances the write position
func (d *Line) Write(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos = (d.writePos + 1) & Mask
}

// Process runs one sample of the feedback delay and returns the delayed read.
// The line stores input + feedback*read.
func (d *Line) Process(input float32, delaySamples float64, feedback float32) float32 {
	out := d.Read(input, delaySamples)
	d.Write(input + out*feedback)
	return out
}

// ProcessBuffer processes a quantum with per-sample delay time in seconds and
// feedback, mixing wet and dry into out - no allocations
func (d *Line) ProcessBuffer(in, seconds, feedback, out []float32, sampleRate float64, wet, dry float32) {
	for i := range out {
		x := in[i]
		read := d.Process(x, float64(seconds[i])*sampleRate, feedback[i])
		out[i] = read*wet + x*dry
	}
}
