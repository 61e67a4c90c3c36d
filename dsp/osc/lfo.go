package osc

import (
	"fmt"
	"math"
)

// Shape selects an LFO waveform.
type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
	SawUp
	SawDown
	SampleHold
)

var shapeNames = [...]string{"sine", "triangle", "square", "saw-up", "saw-down", "sample-hold"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape maps a shape name to its Shape.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), nil
		}
	}
	return Sine, fmt.Errorf("osc: unknown shape %q", name)
}

const (
	defaultLFOSeed = 0x9e3779b9
	maxLFORateHz   = 50.0
)

// LFO is a phase-accumulating low-frequency oscillator.
type LFO struct {
	table      *SineTable
	sampleRate float64
	rateHz     float64
	inc        float64

	shape Shape
	phase float64
	start float64

	seed  uint32
	rng   uint32
	held  float64
	fresh bool
}

// NewLFO returns a sine LFO at rateHz. Phase starts at 0.
func NewLFO(sampleRate, rateHz float64) *LFO {
	l := &LFO{
		table:      shared,
		sampleRate: 48000,
		seed:       defaultLFOSeed,
	}
	if sampleRate > 0 {
		l.sampleRate = sampleRate
	}
	l.SetRate(rateHz)
	l.Reset()
	return l
}

// SetSampleRate updates the sample rate and keeps the rate in Hz.
func (l *LFO) SetSampleRate(sampleRate float64) {
	if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
		l.sampleRate = sampleRate
		l.SetRate(l.rateHz)
	}
}

// SetRate sets the frequency in Hz, limited to [0, 50].
func (l *LFO) SetRate(hz float64) {
	if math.IsNaN(hz) || hz < 0 {
		hz = 0
	}
	l.rateHz = math.Min(hz, maxLFORateHz)
	l.inc = l.rateHz / l.sampleRate
}

// Rate returns the frequency in Hz.
func (l *LFO) Rate() float64 { return l.rateHz }

// SetShape changes the waveform without moving the phase.
func (l *LFO) SetShape(s Shape) {
	if s < Sine || s > SampleHold {
		s = Sine
	}
	l.shape = s
	l.fresh = true
}

// Shape returns the current waveform.
func (l *LFO) Shape() Shape { return l.shape }

// SetPhase moves the phase to p cycles and makes it the Reset phase.
func (l *LFO) SetPhase(p float64) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	p -= math.Floor(p)
	l.phase = p
	l.start = p
}

// Phase returns the current phase in cycles.
func (l *LFO) Phase() float64 { return l.phase }

// SetSeed sets the sample-and-hold seed used on the next Reset.
func (l *LFO) SetSeed(seed uint32) {
	if seed == 0 {
		seed = defaultLFOSeed
	}
	l.seed = seed
}

// Reset restores the start phase and reseeds sample-and-hold.
func (l *LFO) Reset() {
	l.phase = l.start
	l.rng = l.seed
	l.fresh = true
}

// Value returns the waveform at the current phase without advancing.
func (l *LFO) Value() float64 {
	switch l.shape {
	case Triangle:
		if l.phase < 0.5 {
			return 4*l.phase - 1
		}
		return 3 - 4*l.phase
	case Square:
		if l.phase < 0.5 {
			return 1
		}
		return -1
	case SawUp:
		return 2*l.phase - 1
	case SawDown:
		return 1 - 2*l.phase
	case SampleHold:
		if l.fresh {
			l.draw()
		}
		return l.held
	default:
		return l.table.At(l.phase)
	}
}

// Next returns the current value and advances by one sample.
func (l *LFO) Next() float64 {
	v := l.Value()
	l.Advance(1)
	return v
}

// Advance moves the phase forward by n samples.
func (l *LFO) Advance(n int) {
	if n <= 0 {
		return
	}
	p := l.phase + l.inc*float64(n)
	if p >= 1 {
		p -= math.Floor(p)
		if l.shape == SampleHold {
			l.fresh = true
		}
	}
	l.phase = p
}

// Fill writes n consecutive values into dst.
func (l *LFO) Fill(dst []float64) {
	for i := range dst {
		dst[i] = l.Next()
	}
}

// draw advances the xorshift32 generator and latches a new held value.
func (l *LFO) draw() {
	x := l.rng
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	l.rng = x
	l.held = float64(x)/float64(math.MaxUint32)*2 - 1
	l.fresh = false
}
