// Package reverb provides the Freeverb reverb algorithm and its building blocks
package reverb

import "github.com/justyntemme/synthgraph/pkg/dsp"

// CombFilter implements a feedback comb filter with one-pole damping in the
// feedback path
type CombFilter struct {
	buffer      []float32
	bufferIdx   int
	feedback    float32
	filterstore float32
	damp1       float32
	damp2       float32
}

// NewCombFilter creates a new comb filter with the given delay in samples
func NewCombFilter(delaySamples int) *CombFilter {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &CombFilter{
		buffer:   make([]float32, delaySamples),
		feedback: 0.5,
		damp1:    0.5,
		damp2:    0.5,
	}
}

// Size returns the delay length in samples
func (c *CombFilter) Size() int {
	return len(c.buffer)
}

// SetFeedback sets the feedback amount
func (c *CombFilter) SetFeedback(feedback float32) {
	c.feedback = feedback
}

// SetDamping sets the damping amount (0-1)
func (c *CombFilter) SetDamping(damping float32) {
	c.damp1 = damping
	c.damp2 = 1.0 - damping
}

// Process processes a single sample through the comb filter
func (c *CombFilter) Process(input float32) float32 {
	output := dsp.Undenormalize(c.buffer[c.bufferIdx])

	c.filterstore = dsp.Undenormalize(output*c.damp2 + c.filterstore*c.damp1)
	c.buffer[c.bufferIdx] = input + c.filterstore*c.feedback

	c.bufferIdx++
	if c.bufferIdx >= len(c.buffer) {
		c.bufferIdx = 0
	}

	return output
}

// Reset clears the comb filter state
func (c *CombFilter) Reset() {
	dsp.Clear(c.buffer)
	c.bufferIdx = 0
	c.filterstore = 0
}

// AllPassFilter implements a Schroeder all-pass diffuser
type AllPassFilter struct {
	buffer    []float32
	bufferIdx int
	feedback  float32
}

// NewAllPassFilter creates a new all-pass filter with the given delay in samples
func NewAllPassFilter(delaySamples int) *AllPassFilter {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &AllPassFilter{
		buffer:   make([]float32, delaySamples),
		feedback: 0.5,
	}
}

// Size returns the delay length in samples
func (a *AllPassFilter) Size() int {
	return len(a.buffer)
}

// SetFeedback sets the feedback amount
func (a *AllPassFilter) SetFeedback(feedback float32) {
	a.feedback = feedback
}

// Process processes a single sample through the all-pass filter
func (a *AllPassFilter) Process(input float32) float32 {
	bufout := dsp.Undenormalize(a.buffer[a.bufferIdx])

	output := -input + bufout
	a.buffer[a.bufferIdx] = input + bufout*a.feedback

	a.bufferIdx++
	if a.bufferIdx >= len(a.buffer) {
		a.bufferIdx = 0
	}

	return output
}

// Reset clears the all-pass filter state
func (a *AllPassFilter) Reset() {
	dsp.Clear(a.buffer)
	a.bufferIdx = 0
}
