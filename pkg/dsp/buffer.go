package dsp

// Buffer utilities for the per-quantum path. None of them allocate.

// Clear zeroes a buffer - no allocations
func Clear(buffer []float32) {
	for i := range buffer {
		buffer[i] = 0
	}
}

// Fill sets every sample of buffer to value - no allocations
func Fill(buffer []float32, value float32) {
	for i := range buffer {
		buffer[i] = value
	}
}

// Copy copies from source to destination - no allocations
func Copy(dst, src []float32) {
	copy(dst, src)
}

// Add mixes source into destination - no allocations
func Add(dst, src []float32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}

// Last returns the final sample of a buffer, or 0 for an empty one.
func Last(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}
	return buffer[len(buffer)-1]
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Undenormalize flushes values too small to matter to exact zero.
func Undenormalize(x float32) float32 {
	if x < Denormal && x > -Denormal {
		return 0
	}
	return x
}
