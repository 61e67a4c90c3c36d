package biquad

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

// DCBlocker is a one-pole/one-zero highpass that removes offset introduced
// by asymmetric clipping.
type DCBlocker struct {
	r      float64
	x1, y1 float64
}

// NewDCBlocker returns a blocker with its corner at cutoffHz.
func NewDCBlocker(sampleRate, cutoffHz float64) *DCBlocker {
	d := &DCBlocker{}
	d.SetCutoff(sampleRate, cutoffHz)
	return d
}

// SetCutoff moves the corner frequency.
func (d *DCBlocker) SetCutoff(sampleRate, cutoffHz float64) {
	if sampleRate <= 0 || cutoffHz <= 0 {
		d.r = 0.995
		return
	}
	d.r = core.Clamp(1-2*math.Pi*cutoffHz/sampleRate, 0.9, 0.99999)
}

// ProcessSample filters one sample.
func (d *DCBlocker) ProcessSample(x float64) float64 {
	y := x - d.x1 + d.r*d.y1
	d.x1 = x
	d.y1 = core.FlushDenormals(y)
	return y
}

// Reset clears the filter state.
func (d *DCBlocker) Reset() {
	d.x1 = 0
	d.y1 = 0
}
