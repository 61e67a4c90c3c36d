// Package delay provides the circular delay line shared by the chorus,
// flanger, echo, reverb and pitch-shifting effects.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/interp"
)

// Interpolation selects the fractional read kernel.
type Interpolation int

const (
	// Hermite uses 4-point cubic interpolation.
	Hermite Interpolation = iota
	// Linear uses 2-point linear interpolation.
	Linear
)

// Option configures a Line at construction time.
type Option func(*Line)

// WithInterpolation selects the fractional read kernel.
func WithInterpolation(mode Interpolation) Option {
	return func(d *Line) { d.mode = mode }
}

// Line is a circular delay line. Read(0) returns the most recently written
// sample; Read(Len()-1) the oldest one still held.
type Line struct {
	buffer   []float64
	writePos int
	mode     Interpolation
}

// New returns a delay line of fixed size.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	d := &Line{buffer: make([]float64, size)}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// NewForDuration returns a line long enough to hold maxSeconds of audio at
// sampleRate plus the interpolation guard samples.
func NewForDuration(sampleRate, maxSeconds float64, opts ...Option) (*Line, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	if maxSeconds < 0 || math.IsNaN(maxSeconds) || math.IsInf(maxSeconds, 0) {
		return nil, fmt.Errorf("delay duration must be >= 0 and finite: %f", maxSeconds)
	}
	return New(int(math.Ceil(maxSeconds*sampleRate))+4, opts...)
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the largest fractional delay ReadFractional honours.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Out-of-range delays are clamped.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if delay < 0 {
		delay = 0
	} else if delay >= size {
		delay = size - 1
	}
	idx := d.writePos - 1 - delay
	if idx < 0 {
		idx += size
	}
	return d.buffer[idx]
}

// ReadFractional reads a fractional delay in samples using the configured
// interpolation kernel.
func (d *Line) ReadFractional(delay float64) float64 {
	if delay < 0 || math.IsNaN(delay) {
		delay = 0
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	p := int(delay)
	t := delay - float64(p)

	if d.mode == Linear {
		return interp.Linear2(t, d.Read(p), d.Read(p+1))
	}

	xm1 := d.Read(max(0, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
