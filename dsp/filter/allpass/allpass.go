package allpass

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

const nyquistSafetyRatio = 0.49

// Coefficient returns the first-order allpass coefficient that places the
// 90 degree phase point at freqHz.
func Coefficient(freqHz, sampleRate float64) float64 {
	maxFreq := nyquistSafetyRatio * sampleRate
	if freqHz < 1 {
		freqHz = 1
	} else if freqHz > maxFreq {
		freqHz = maxFreq
	}

	g := math.Tan(math.Pi * freqHz / sampleRate)
	if math.IsInf(g, 0) || math.IsNaN(g) {
		return 0
	}

	return (1 - g) / (1 + g)
}

// FirstOrder is a single first-order allpass stage
//
//	y[n] = a*x[n] + x[n-1] - a*y[n-1]
//
// with the coefficient supplied per sample so a swept phaser can drive it.
type FirstOrder struct {
	x1, y1 float64
}

// Process filters one sample with coefficient a.
func (s *FirstOrder) Process(x, a float64) float64 {
	y := a*x + s.x1 - a*s.y1
	s.x1 = x
	s.y1 = y
	return y
}

// Flush zeroes denormal state.
func (s *FirstOrder) Flush() {
	s.x1 = core.FlushDenormals(s.x1)
	s.y1 = core.FlushDenormals(s.y1)
}

// Reset clears the stage history.
func (s *FirstOrder) Reset() {
	s.x1 = 0
	s.y1 = 0
}

// Diffuser is a Schroeder allpass built on a fixed-length circular buffer:
//
//	v = x + g*buf[n-D]
//	y = buf[n-D] - g*v
type Diffuser struct {
	buf  []float64
	pos  int
	gain float64
}

// NewDiffuser allocates a diffuser with the given delay in samples.
func NewDiffuser(delaySamples int, gain float64) *Diffuser {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &Diffuser{
		buf:  make([]float64, delaySamples),
		gain: core.Clamp(gain, -0.98, 0.98),
	}
}

// SetGain updates the feedback gain, limited to |g| <= 0.98.
func (d *Diffuser) SetGain(g float64) {
	d.gain = core.Clamp(g, -0.98, 0.98)
}

// Len returns the delay length in samples.
func (d *Diffuser) Len() int { return len(d.buf) }

// ProcessSample filters one sample.
func (d *Diffuser) ProcessSample(x float64) float64 {
	delayed := d.buf[d.pos]
	v := x + d.gain*delayed
	d.buf[d.pos] = core.FlushDenormals(v)
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
	return delayed - d.gain*v
}

// Reset clears the delay buffer.
func (d *Diffuser) Reset() {
	clear(d.buf)
	d.pos = 0
}
