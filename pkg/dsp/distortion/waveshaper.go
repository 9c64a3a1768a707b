// Package distortion provides static waveshaping curves
package distortion

import "math"

// CurveType represents different waveshaping transfer functions
type CurveType int

const (
	// CurveSoftClip applies rational soft clipping x/(1+|x|)
	CurveSoftClip CurveType = iota
	// CurveHardClip clips the signal at ±1
	CurveHardClip
	// CurveFoldback folds the signal back into ±1 as a triangle
	CurveFoldback
	// CurveSine applies sin(x)
	CurveSine
)

var curveNames = [...]string{
	CurveSoftClip: "softclip",
	CurveHardClip: "hardclip",
	CurveFoldback: "foldback",
	CurveSine:     "sine",
}

func (c CurveType) String() string {
	if c < 0 || int(c) >= len(curveNames) {
		return "unknown"
	}
	return curveNames[c]
}

// ParseCurve resolves a curve name
func ParseCurve(name string) (CurveType, bool) {
	for i, n := range curveNames {
		if n == name {
			return CurveType(i), true
		}
	}
	return 0, false
}

// Shape applies the curve to a single sample
func (c CurveType) Shape(x float64) float64 {
	switch c {
	case CurveSoftClip:
		return softClip(x)
	case CurveHardClip:
		return hardClip(x)
	case CurveFoldback:
		return foldback(x)
	case CurveSine:
		return math.Sin(x)
	default:
		return x
	}
}

// Waveshaper applies a curve to a gain-scaled input
type Waveshaper struct {
	curveType CurveType
}

// NewWaveshaper creates a new waveshaper with the specified curve type
func NewWaveshaper(curveType CurveType) *Waveshaper {
	return &Waveshaper{curveType: curveType}
}

// SetCurveType changes the waveshaping curve
func (w *Waveshaper) SetCurveType(curveType CurveType) {
	w.curveType = curveType
}

// Curve returns the active curve
func (w *Waveshaper) Curve() CurveType {
	return w.curveType
}

// Process applies waveshaping to a single sample
func (w *Waveshaper) Process(input float32) float32 {
	return float32(w.curveType.Shape(float64(input)))
}

// ProcessBuffer shapes input*gain into output - no allocations
func (w *Waveshaper) ProcessBuffer(input, gain, output []float32) {
	for i := range output {
		output[i] = float32(w.curveType.Shape(float64(input[i] * gain[i])))
	}
}

func softClip(x float64) float64 {
	return x / (1.0 + math.Abs(x))
}

func hardClip(x float64) float64 {
	if x > 1.0 {
		return 1.0
	} else if x < -1.0 {
		return -1.0
	}
	return x
}

// foldback reflects the signal off ±1, period 4
func foldback(x float64) float64 {
	return math.Abs(math.Abs(math.Mod(x-1.0, 4.0))-2.0) - 1.0
}
