package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer computes level statistics of audio buffers.
type AudioAnalyzer struct {
	dcThreshold      float32
	silenceThreshold float32
}

// ClipThreshold is the magnitude at which a sample counts as clipped.
const ClipThreshold = 0.99

// NewAudioAnalyzer creates a new audio analyzer with default settings.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		dcThreshold:      0.01,
		silenceThreshold: 0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Samples        int
	Peak           float32
	RMS            float32
	DC             float32
	Clipping       bool
	ClippedSamples int
	Silent         bool
	HasNaN         bool
	NaNCount       int
}

// Analyze performs analysis on an audio buffer.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	var acc Accumulator
	acc.Add(buffer)
	return acc.Result(a)
}

// Accumulator gathers statistics over many buffers, for analysing streams
// that are rendered one chunk at a time.
type Accumulator struct {
	count      int
	nanCount   int
	clipped    int
	peak       float32
	sum        float64
	sumSquares float64
}

// Add folds a buffer into the running statistics - no allocations
func (acc *Accumulator) Add(buffer []float32) {
	for _, sample := range buffer {
		if math.IsNaN(float64(sample)) {
			acc.nanCount++
			continue
		}

		abs := sample
		if abs < 0 {
			abs = -abs
		}
		if abs > acc.peak {
			acc.peak = abs
		}
		if abs >= ClipThreshold {
			acc.clipped++
		}

		acc.sum += float64(sample)
		acc.sumSquares += float64(sample) * float64(sample)
		acc.count++
	}
}

// Result returns the statistics gathered so far, judged by a's thresholds.
func (acc *Accumulator) Result(a *AudioAnalyzer) AnalysisResult {
	result := AnalysisResult{
		Samples:        acc.count + acc.nanCount,
		Peak:           acc.peak,
		ClippedSamples: acc.clipped,
		Clipping:       acc.clipped > 0,
		NaNCount:       acc.nanCount,
		HasNaN:         acc.nanCount > 0,
	}
	if acc.count == 0 {
		result.Silent = true
		return result
	}

	result.RMS = float32(math.Sqrt(acc.sumSquares / float64(acc.count)))
	result.DC = float32(acc.sum / float64(acc.count))
	result.Silent = result.RMS < a.silenceThreshold
	return result
}

// CheckBuffer performs basic sanity checks on an audio buffer.
func CheckBuffer(buffer []float32, name string) []string {
	analyzer := NewAudioAnalyzer()
	return analyzer.Issues(analyzer.Analyze(buffer), name)
}

// Issues lists the problems found in an analysis result.
func (a *AudioAnalyzer) Issues(result AnalysisResult, name string) []string {
	var issues []string

	if result.HasNaN {
		issues = append(issues, fmt.Sprintf("%s: Contains %d NaN values", name, result.NaNCount))
	}

	if result.Clipping {
		issues = append(issues, fmt.Sprintf("%s: Clipping detected (%d samples)", name, result.ClippedSamples))
	}

	if math.Abs(float64(result.DC)) > float64(a.dcThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}

	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: Peak exceeds 1.0 (%.3f)", name, result.Peak))
	}

	return issues
}

// LogStats logs statistics of an analysis result to l.
func LogStats(l *Logger, name string, result AnalysisResult) {
	l.Info("%s: %d samples, peak %.3f, rms %.3f, dc %.6f", name, result.Samples, result.Peak, result.RMS, result.DC)

	if result.Clipping {
		l.Warn("%s: clipping in %d samples", name, result.ClippedSamples)
	}
	if result.Silent {
		l.Info("%s: silent", name)
	}
	if result.HasNaN {
		l.Error("%s: %d NaN values", name, result.NaNCount)
	}
}
