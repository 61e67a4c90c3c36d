package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/osc"
)

const (
	MinRatio = 0.5
	MaxRatio = 2.0

	defaultWindowMs = 40.0
	minWindowMs     = 10.0
	maxWindowMs     = 100.0
	headGuard       = 2.0
)

// Shifter transposes its input with two read heads sweeping a delay line.
// Each head's delay moves at (1-ratio) samples per sample and wraps after
// one window; the heads sit half a window apart and are weighted by
// complementary raised-cosine gains so the wrap of one head happens while
// it is silent.
type Shifter struct {
	sampleRate float64
	ratio      float64
	windowMs   float64

	line   *delay.Line
	table  *osc.SineTable
	window float64
	phase  float64
	inc    float64
}

// NewShifter allocates a shifter for windows up to 100 ms.
func NewShifter(sampleRate float64) (*Shifter, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}
	line, err := delay.NewForDuration(sampleRate, maxWindowMs/1000+0.001)
	if err != nil {
		return nil, err
	}
	s := &Shifter{
		sampleRate: sampleRate,
		ratio:      1,
		line:       line,
		table:      osc.Shared(),
	}
	s.SetWindow(defaultWindowMs)
	return s, nil
}

// SetRatio sets the pitch ratio, clamped to [0.5, 2].
func (s *Shifter) SetRatio(ratio float64) {
	if math.IsNaN(ratio) {
		ratio = 1
	}
	s.ratio = math.Min(MaxRatio, math.Max(MinRatio, ratio))
	s.inc = (1 - s.ratio) / s.window
}

// SetSemitones sets the ratio from a transposition in semitones.
func (s *Shifter) SetSemitones(semitones float64) {
	s.SetRatio(math.Pow(2, semitones/12))
}

// Ratio returns the current pitch ratio.
func (s *Shifter) Ratio() float64 { return s.ratio }

// SetWindow sets the sweep window in milliseconds, clamped to [10, 100].
func (s *Shifter) SetWindow(ms float64) {
	if math.IsNaN(ms) {
		ms = defaultWindowMs
	}
	s.windowMs = math.Min(maxWindowMs, math.Max(minWindowMs, ms))
	s.window = s.windowMs / 1000 * s.sampleRate
	s.inc = (1 - s.ratio) / s.window
}

// Window returns the sweep window in milliseconds.
func (s *Shifter) Window() float64 { return s.windowMs }

// Latency returns the mean delay of the output in samples.
func (s *Shifter) Latency() float64 { return headGuard + s.window/2 }

// ProcessSample shifts one sample.
func (s *Shifter) ProcessSample(x float64) float64 {
	s.line.Write(x)

	p0 := s.phase
	p1 := p0 + 0.5
	if p1 >= 1 {
		p1--
	}

	// sin^2(pi*p) and cos^2(pi*p) sum to one.
	g0 := s.table.At(0.5 * p0)
	g0 *= g0
	g1 := 1 - g0

	y := g0*s.line.ReadFractional(headGuard+p0*s.window) +
		g1*s.line.ReadFractional(headGuard+p1*s.window)

	s.phase += s.inc
	if s.phase >= 1 {
		s.phase--
	} else if s.phase < 0 {
		s.phase++
	}
	return y
}

// ProcessInPlace shifts buf in place.
func (s *Shifter) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the delay line and head positions.
func (s *Shifter) Reset() {
	s.line.Reset()
	s.phase = 0
}
