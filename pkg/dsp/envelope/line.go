// Package envelope provides breakpoint envelope generators for control signals
package envelope

// MaxPoints is the longest breakpoint sequence a Line accepts
const MaxPoints = 64

// Point is one breakpoint: ramp to Value over Time seconds
type Point struct {
	Value float32
	Time  float32
}

// Line generates piecewise-linear ramps through a list of breakpoints and
// holds the last value once the list is exhausted.
type Line struct {
	sampleRate float64
	sampleTime float64

	points [MaxPoints]Point
	count  int
	index  int

	counter int
	cur     float64
	step    float64
	active  bool
}

// NewLine creates an inactive line that outputs 0
func NewLine(sampleRate float64) *Line {
	return &Line{
		sampleRate: sampleRate,
		sampleTime: 1.0 / sampleRate,
	}
}

// Begin restarts the line from its current value through points.
// Points beyond MaxPoints are ignored; callers validate the count.
func (l *Line) Begin(points []Point) {
	l.count = copy(l.points[:], points)
	l.index = 0
	l.active = true
	l.nextPoint()
}

func (l *Line) nextPoint() {
	if l.index >= l.count {
		l.active = false
		return
	}

	p := l.points[l.index]
	if p.Time <= 0 {
		l.step = 0
		l.counter = 0
		return
	}
	l.step = (float64(p.Value) - l.cur) * l.sampleTime / float64(p.Time)
	l.counter = int(float64(p.Time) * l.sampleRate)
}

// Next returns the current value and advances one sample
func (l *Line) Next() float32 {
	out := float32(l.cur)
	if !l.active {
		return out
	}

	l.cur += l.step

	if l.counter == 0 {
		l.cur = float64(l.points[l.index].Value)
		l.index++
		l.nextPoint()
	} else {
		l.counter--
	}
	return out
}

// Process fills buffer with line values - no allocations
func (l *Line) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = l.Next()
	}
}

// Value returns the current output value
func (l *Line) Value() float32 {
	return float32(l.cur)
}

// IsActive returns true while a ramp is in progress
func (l *Line) IsActive() bool {
	return l.active
}

// Reset stops the line and returns it to 0
func (l *Line) Reset() {
	l.count = 0
	l.index = 0
	l.counter = 0
	l.cur = 0
	l.step = 0
	l.active = false
}
