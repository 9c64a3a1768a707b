package reverb

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestFreeverbCreation(t *testing.T) {
	reverb := NewFreeverb(44100)

	if reverb == nil {
		t.Fatal("Failed to create Freeverb instance")
	}

	// Initial parameters in scaled form
	if !approx(reverb.roomSize, 0.84) {
		t.Errorf("Expected initial room size %f, got %f", 0.84, reverb.roomSize)
	}
	if !approx(reverb.damping, 0.2) {
		t.Errorf("Expected initial damping %f, got %f", 0.2, reverb.damping)
	}
	if !approx(reverb.wet, 1.0) {
		t.Errorf("Expected initial wet %f, got %f", 1.0, reverb.wet)
	}
	if reverb.dry != 0 {
		t.Errorf("Expected initial dry 0, got %f", reverb.dry)
	}
	if !approx(reverb.wet1, 1.0) || reverb.wet2 != 0 {
		t.Errorf("Expected full width wet1=1 wet2=0, got %f %f", reverb.wet1, reverb.wet2)
	}
}

func TestFreeverbTuning(t *testing.T) {
	reverb := NewFreeverb(44100)
	for i, n := range combTuning {
		if reverb.combL[i].Size() != n {
			t.Errorf("Comb L%d: expected %d, got %d", i, n, reverb.combL[i].Size())
		}
		if reverb.combR[i].Size() != n+stereoSpread {
			t.Errorf("Comb R%d: expected %d, got %d", i, n+stereoSpread, reverb.combR[i].Size())
		}
	}
	for i, n := range allpassTuning {
		if reverb.allpassL[i].Size() != n {
			t.Errorf("Allpass L%d: expected %d, got %d", i, n, reverb.allpassL[i].Size())
		}
	}
}

func TestFreeverbParameterRanges(t *testing.T) {
	reverb := NewFreeverb(44100)

	reverb.SetRoomSize(2.0)
	if !approx(reverb.roomSize, scaleRoom+offsetRoom) {
		t.Errorf("Room size should be clamped to %f, got %f", scaleRoom+offsetRoom, reverb.roomSize)
	}

	reverb.SetRoomSize(-1.0)
	if !approx(reverb.roomSize, offsetRoom) {
		t.Errorf("Room size should be clamped to %f, got %f", offsetRoom, reverb.roomSize)
	}

	reverb.SetDamping(2.0)
	if !approx(reverb.damping, scaleDamping) {
		t.Errorf("Damping should be clamped to %f, got %f", scaleDamping, reverb.damping)
	}

	reverb.SetWetLevel(0.5)
	if !approx(reverb.wet, 1.5) {
		t.Errorf("Expected wet 1.5, got %f", reverb.wet)
	}

	reverb.SetDryLevel(0.5)
	if !approx(reverb.dry, 1.0) {
		t.Errorf("Expected dry 1.0, got %f", reverb.dry)
	}
}

func TestFreeverbProcessing(t *testing.T) {
	reverb := NewFreeverb(44100)

	// Impulse response should carry energy well after the longest comb
	var tail float64
	for i := 0; i < 44100; i++ {
		in := float32(0)
		if i == 0 {
			in = 1
		}
		l, r := reverb.ProcessStereo(in, in)
		if math.IsNaN(float64(l)) || math.IsNaN(float64(r)) {
			t.Fatalf("NaN at sample %d", i)
		}
		if i > 2000 {
			tail += math.Abs(float64(l)) + math.Abs(float64(r))
		}
	}
	if tail == 0 {
		t.Error("Expected a reverb tail after the impulse")
	}
}

func TestFreeverbDryOnly(t *testing.T) {
	reverb := NewFreeverb(44100)
	reverb.SetWetLevel(0)
	reverb.SetDryLevel(0.5)

	for i := 0; i < 256; i++ {
		in := float32(math.Sin(float64(i) * 0.05))
		l, r := reverb.ProcessStereo(in, -in)
		if !approx(l, in) || !approx(r, -in) {
			t.Fatalf("Sample %d: expected dry passthrough %f/%f, got %f/%f", i, in, -in, l, r)
		}
	}
}

func TestFreeverbMute(t *testing.T) {
	reverb := NewFreeverb(44100)

	for i := 0; i < 1000; i++ {
		reverb.ProcessStereo(1, 1)
	}

	reverb.Mute()

	for i := 0; i < 100; i++ {
		l, r := reverb.ProcessStereo(0, 0)
		if l != 0 || r != 0 {
			t.Fatalf("Expected silence after mute, got %f/%f", l, r)
		}
	}
}

func TestFreeverbFreezeMode(t *testing.T) {
	reverb := NewFreeverb(44100)

	reverb.SetMode(1)
	if !reverb.Frozen() {
		t.Fatal("Expected frozen mode")
	}
	if reverb.gain != 0 || reverb.roomSize1 != 1 || reverb.damping1 != 0 {
		t.Errorf("Frozen state wrong: gain %f room %f damp %f", reverb.gain, reverb.roomSize1, reverb.damping1)
	}

	// Frozen input is muted
	l, r := reverb.ProcessStereo(1, 1)
	if l != 0 || r != 0 {
		t.Errorf("Frozen reverb should ignore new input, got %f/%f", l, r)
	}

	reverb.SetMode(0)
	if reverb.Frozen() || reverb.gain != fixedGain {
		t.Error("Expected freeze to be released")
	}
}

func TestFreeverbStereoWidth(t *testing.T) {
	reverb := NewFreeverb(44100)
	reverb.SetWidth(0)

	// Zero width gives identical channels
	for i := 0; i < 4000; i++ {
		in := float32(0)
		if i == 0 {
			in = 1
		}
		l, r := reverb.ProcessStereo(in, in)
		if !approx(l, r) {
			t.Fatalf("Sample %d: expected mono output, got %f/%f", i, l, r)
		}
	}
}

func TestFreeverbDifferentSampleRates(t *testing.T) {
	for _, sr := range []float64{22050, 48000, 96000} {
		reverb := NewFreeverb(sr)
		expected := int(float64(combTuning[0]) * sr / tuningRate)
		if reverb.combL[0].Size() != expected {
			t.Errorf("Sample rate %f: expected comb size %d, got %d", sr, expected, reverb.combL[0].Size())
		}
	}
}

func TestCombUndenormalizes(t *testing.T) {
	c := NewCombFilter(4)
	c.SetFeedback(0.5)
	c.SetDamping(0)
	c.Process(1e-38)
	for i := 0; i < 8; i++ {
		if out := c.Process(0); out != 0 {
			t.Fatalf("Expected denormal input to flush to zero, got %g", out)
		}
	}
}

func BenchmarkFreeverbQuantum(b *testing.B) {
	reverb := NewFreeverb(44100)
	inL := make([]float32, 64)
	inR := make([]float32, 64)
	outL := make([]float32, 64)
	outR := make([]float32, 64)
	for i := range inL {
		inL[i] = float32(math.Sin(float64(i) * 0.1))
		inR[i] = inL[i]
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reverb.ProcessBuffer(inL, inR, outL, outR)
	}
}
