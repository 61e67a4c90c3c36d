package biquad

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad filter with coefficients and internal state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients replaces the transfer function and keeps the state, so a
// swept filter does not click. Coefficients that are non-finite or put a
// pole on or outside the unit circle are ignored and the previous set stays
// in use; the return value reports whether c was accepted.
func (s *Section) SetCoefficients(c Coefficients) bool {
	if !c.finite() || !c.Stable() {
		return false
	}
	s.Coefficients = c
	return true
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) Stable() bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

func (c *Coefficients) finite() bool {
	return core.IsFinite(c.B0) && core.IsFinite(c.B1) && core.IsFinite(c.B2) &&
		core.IsFinite(c.A1) && core.IsFinite(c.A2)
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// FlushState zeroes denormal state and recovers from a non-finite state by
// clearing it. Effects call it once per block.
func (s *Section) FlushState() {
	if !core.IsFinite(s.d0) || !core.IsFinite(s.d1) {
		s.Reset()
		return
	}
	s.d0 = core.FlushDenormals(s.d0)
	s.d1 = core.FlushDenormals(s.d1)
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}
