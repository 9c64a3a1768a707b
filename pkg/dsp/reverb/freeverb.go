package reverb

import "github.com/justyntemme/synthgraph/pkg/dsp"

// Freeverb tuning constants (scaled for 44.1kHz)
const (
	numCombs     = 8
	numAllpasses = 4
	muted        = 0.0
	fixedGain    = 0.015
	scaleWet     = 3.0
	scaleDry     = 2.0
	scaleDamping = 0.4
	scaleRoom    = 0.28
	offsetRoom   = 0.7
	initialRoom  = 0.5
	initialDamp  = 0.5
	initialWet   = 1.0 / scaleWet
	initialDry   = 0.0
	initialWidth = 1.0
	stereoSpread = 23
	freezeMode   = 0.5
	tuningRate   = 44100.0
)

// Comb filter tuning values (in samples at 44.1kHz)
var combTuning = [numCombs]int{
	1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617,
}

// Allpass filter tuning values (in samples at 44.1kHz)
var allpassTuning = [numAllpasses]int{
	556, 441, 341, 225,
}

// Freeverb implements the Freeverb reverb algorithm by Jezar at Dreampoint.
// Parameter setters take normalized 0-1 values and scale them into the
// algorithm's internal ranges.
type Freeverb struct {
	combL    [numCombs]*CombFilter
	combR    [numCombs]*CombFilter
	allpassL [numAllpasses]*AllPassFilter
	allpassR [numAllpasses]*AllPassFilter

	// Scaled parameters
	mode     float32
	gain     float32
	roomSize float32
	damping  float32
	wet      float32
	dry      float32
	width    float32

	// Cached values
	roomSize1 float32
	damping1  float32
	wet1      float32
	wet2      float32
}

// NewFreeverb creates a new Freeverb reverb instance
func NewFreeverb(sampleRate float64) *Freeverb {
	f := &Freeverb{}

	// Scale factor for different sample rates
	scaleFactor := sampleRate / tuningRate

	for i := 0; i < numCombs; i++ {
		f.combL[i] = NewCombFilter(int(float64(combTuning[i]) * scaleFactor))
		f.combR[i] = NewCombFilter(int(float64(combTuning[i]+stereoSpread) * scaleFactor))
	}

	for i := 0; i < numAllpasses; i++ {
		f.allpassL[i] = NewAllPassFilter(int(float64(allpassTuning[i]) * scaleFactor))
		f.allpassR[i] = NewAllPassFilter(int(float64(allpassTuning[i]+stereoSpread) * scaleFactor))
	}

	f.wet = initialWet * scaleWet
	f.roomSize = initialRoom*scaleRoom + offsetRoom
	f.dry = initialDry * scaleDry
	f.damping = initialDamp * scaleDamping
	f.width = initialWidth
	f.update()

	return f
}

func clamp01(v float32) float32 {
	return float32(dsp.Clamp(float64(v), 0, 1))
}

// SetRoomSize sets the room size (0-1)
func (f *Freeverb) SetRoomSize(value float32) {
	f.roomSize = clamp01(value)*scaleRoom + offsetRoom
	f.update()
}

// SetDamping sets the damping amount (0-1)
func (f *Freeverb) SetDamping(value float32) {
	f.damping = clamp01(value) * scaleDamping
	f.update()
}

// SetWetLevel sets the wet signal level (0-1)
func (f *Freeverb) SetWetLevel(value float32) {
	f.wet = clamp01(value) * scaleWet
	f.update()
}

// SetDryLevel sets the dry signal level (0-1)
func (f *Freeverb) SetDryLevel(value float32) {
	f.dry = clamp01(value) * scaleDry
}

// SetWidth sets the stereo width (0-1)
func (f *Freeverb) SetWidth(value float32) {
	f.width = clamp01(value)
	f.update()
}

// SetMode sets the freeze mode (>=0.5 freezes the tail)
func (f *Freeverb) SetMode(value float32) {
	f.mode = clamp01(value)
	f.update()
}

// Frozen reports whether freeze mode is active
func (f *Freeverb) Frozen() bool {
	return f.mode >= freezeMode
}

// update recalculates internal values after parameter changes
func (f *Freeverb) update() {
	f.wet1 = f.wet * (f.width*0.5 + 0.5)
	f.wet2 = f.wet * ((1 - f.width) * 0.5)

	if f.Frozen() {
		f.roomSize1 = 1
		f.damping1 = 0
		f.gain = muted
	} else {
		f.roomSize1 = f.roomSize
		f.damping1 = f.damping
		f.gain = fixedGain
	}

	for i := 0; i < numCombs; i++ {
		f.combL[i].SetFeedback(f.roomSize1)
		f.combR[i].SetFeedback(f.roomSize1)
		f.combL[i].SetDamping(f.damping1)
		f.combR[i].SetDamping(f.damping1)
	}
}

// ProcessStereo processes one stereo sample through the reverb
func (f *Freeverb) ProcessStereo(inputL, inputR float32) (outputL, outputR float32) {
	input := (inputL + inputR) * f.gain

	var outL, outR float32

	// Accumulate comb filters in parallel
	for i := 0; i < numCombs; i++ {
		outL += f.combL[i].Process(input)
		outR += f.combR[i].Process(input)
	}

	// Feed through allpasses in series
	for i := 0; i < numAllpasses; i++ {
		outL = f.allpassL[i].Process(outL)
		outR = f.allpassR[i].Process(outR)
	}

	outputL = outL*f.wet1 + outR*f.wet2 + inputL*f.dry
	outputR = outR*f.wet1 + outL*f.wet2 + inputR*f.dry
	return outputL, outputR
}

// ProcessBuffer runs stereo input buffers into stereo output buffers - no allocations
func (f *Freeverb) ProcessBuffer(inL, inR, outL, outR []float32) {
	for i := range outL {
		outL[i], outR[i] = f.ProcessStereo(inL[i], inR[i])
	}
}

// Mute clears all comb and allpass buffers
func (f *Freeverb) Mute() {
	for i := 0; i < numCombs; i++ {
		f.combL[i].Reset()
		f.combR[i].Reset()
	}
	for i := 0; i < numAllpasses; i++ {
		f.allpassL[i].Reset()
		f.allpassR[i].Reset()
	}
}

// Reset clears all internal state
func (f *Freeverb) Reset() {
	f.Mute()
}
