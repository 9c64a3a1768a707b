package distortion

import (
	"math"
	"testing"
)

func TestWaveshaper(t *testing.T) {
	ws := NewWaveshaper(CurveSoftClip)

	t.Run("HardClip", func(t *testing.T) {
		ws.SetCurveType(CurveHardClip)

		tests := []struct {
			input    float32
			expected float32
		}{
			{0.5, 0.5},
			{1.5, 1.0},
			{-1.5, -1.0},
			{0.0, 0.0},
		}

		for _, test := range tests {
			result := ws.Process(test.input)
			if math.Abs(float64(result-test.expected)) > 1e-6 {
				t.Errorf("HardClip(%f) = %f, want %f", test.input, result, test.expected)
			}
		}
	})

	t.Run("SoftClip", func(t *testing.T) {
		ws.SetCurveType(CurveSoftClip)

		if r := ws.Process(1); math.Abs(float64(r)-0.5) > 1e-6 {
			t.Errorf("SoftClip(1) = %f, want 0.5", r)
		}
		r := ws.Process(1000)
		if r >= 1.0 || r <= 0.99 {
			t.Errorf("SoftClip should approach but stay under 1, got %f", r)
		}
		if ws.Process(-3) != -ws.Process(3) {
			t.Error("SoftClip should be odd-symmetric")
		}
	})

	t.Run("Foldback", func(t *testing.T) {
		ws.SetCurveType(CurveFoldback)

		tests := []struct {
			input    float32
			expected float32
		}{
			{0.0, 0.0},
			{0.5, 0.5},
			{1.0, 1.0},
			{1.5, 0.5},
			{2.0, 0.0},
			{3.0, -1.0},
		}
		for _, test := range tests {
			result := ws.Process(test.input)
			if math.Abs(float64(result-test.expected)) > 1e-6 {
				t.Errorf("Foldback(%f) = %f, want %f", test.input, result, test.expected)
			}
		}
	})

	t.Run("Sine", func(t *testing.T) {
		ws.SetCurveType(CurveSine)
		if r := ws.Process(math.Pi / 2); math.Abs(float64(r)-1) > 1e-6 {
			t.Errorf("Sine(pi/2) = %f, want 1", r)
		}
	})
}

func TestWaveshaperBufferAppliesGain(t *testing.T) {
	ws := NewWaveshaper(CurveHardClip)
	in := []float32{0.25, 0.5, -0.5, 1}
	gain := []float32{2, 4, 1, 0}
	out := make([]float32, 4)

	ws.ProcessBuffer(in, gain, out)

	expected := []float32{0.5, 1, -0.5, 0}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("Sample %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestParseCurve(t *testing.T) {
	for _, name := range []string{"softclip", "hardclip", "foldback", "sine"} {
		c, ok := ParseCurve(name)
		if !ok || c.String() != name {
			t.Errorf("Failed to round trip curve %q", name)
		}
	}
	if _, ok := ParseCurve("tube"); ok {
		t.Error("Unknown curve should not parse")
	}
}

func BenchmarkWaveshaperQuantum(b *testing.B) {
	ws := NewWaveshaper(CurveFoldback)
	in := make([]float32, 64)
	gain := make([]float32, 64)
	out := make([]float32, 64)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) * 0.1))
		gain[i] = 3
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ws.ProcessBuffer(in, gain, out)
	}
}

func TestWaveshaperCurve(t *testing.T) {
	ws := NewWaveshaper(CurveSoftClip)
	if ws.Curve() != CurveSoftClip {
		t.Errorf("Expected %s, got %s", CurveSoftClip, ws.Curve())
	}
	ws.SetCurveType(CurveFoldback)
	if ws.Curve() != CurveFoldback {
		t.Errorf("Expected %s, got %s", CurveFoldback, ws.Curve())
	}
}
