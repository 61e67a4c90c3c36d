package meter

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	defaultDetectorMinHz  = 60.0
	defaultDetectorMaxHz  = 1500.0
	defaultDetectorFloor  = 1e-3 // -60 dBFS
	minDetectorFrameSize  = 256
	detectorHopDivisor    = 4
	octaveCorrectionRatio = 0.5
)

// ErrFrameSize is returned for frame sizes that are not powers of two or
// are too small to resolve guitar fundamentals.
var ErrFrameSize = errors.New("meter: frame size must be a power of two >= 256")

// PitchDetector estimates the fundamental frequency of a monophonic input
// from the peak of a Hann-windowed FFT magnitude spectrum with parabolic
// interpolation. A new estimate is produced every quarter frame.
type PitchDetector struct {
	sampleRate float64
	size       int
	hop        int

	plan *algofft.Plan[complex128]

	window []float64
	ring   []float64
	pos    int
	filled int
	since  int

	frame []complex128
	re    []float64
	im    []float64
	mag   []float64

	minHz, maxHz float64
	floor        float64

	freq       float64
	confidence float64
}

// NewPitchDetector creates a detector with the given frame size.
func NewPitchDetector(sampleRate float64, size int) (*PitchDetector, error) {
	if size < minDetectorFrameSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameSize, size)
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("meter: pitch detector sample rate must be > 0: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("meter: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1
	d := &PitchDetector{
		sampleRate: sampleRate,
		size:       size,
		hop:        size / detectorHopDivisor,
		plan:       plan,
		window:     make([]float64, size),
		ring:       make([]float64, size),
		frame:      make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		mag:        make([]float64, bins),
		minHz:      defaultDetectorMinHz,
		maxHz:      defaultDetectorMaxHz,
		floor:      defaultDetectorFloor,
	}
	for i := range d.window {
		d.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
	}
	return d, nil
}

// SetRange limits the search band in Hz.
func (d *PitchDetector) SetRange(minHz, maxHz float64) error {
	if !(minHz > 0) || !(maxHz > minHz) || maxHz >= d.sampleRate/2 {
		return fmt.Errorf("meter: invalid detector range [%f, %f]", minHz, maxHz)
	}
	d.minHz = minHz
	d.maxHz = maxHz
	return nil
}

// SetFloor sets the minimum sine amplitude treated as a pitched signal.
func (d *PitchDetector) SetFloor(amplitude float64) {
	if amplitude > 0 {
		d.floor = amplitude
	}
}

// Write feeds one block. Analysis runs inline whenever a hop completes.
func (d *PitchDetector) Write(block []float64) {
	for _, x := range block {
		d.ring[d.pos] = x
		d.pos++
		if d.pos == d.size {
			d.pos = 0
		}
		if d.filled < d.size {
			d.filled++
		}
		d.since++
		if d.since >= d.hop && d.filled == d.size {
			d.since = 0
			d.analyze()
		}
	}
}

// Frequency returns the last estimate in Hz, or 0 when no pitch was found.
func (d *PitchDetector) Frequency() float64 { return d.freq }

// Confidence returns the last peak amplitude relative to full scale.
func (d *PitchDetector) Confidence() float64 { return d.confidence }

// FrameSize returns the analysis frame length.
func (d *PitchDetector) FrameSize() int { return d.size }

// Reset clears history and the current estimate.
func (d *PitchDetector) Reset() {
	clear(d.ring)
	d.pos = 0
	d.filled = 0
	d.since = 0
	d.freq = 0
	d.confidence = 0
}

func (d *PitchDetector) analyze() {
	n := d.size
	for i := range n {
		d.frame[i] = complex(d.ring[(d.pos+i)&(n-1)]*d.window[i], 0)
	}
	if err := d.plan.Forward(d.frame, d.frame); err != nil {
		d.freq = 0
		return
	}
	for k := range d.re {
		d.re[k] = real(d.frame[k])
		d.im[k] = imag(d.frame[k])
	}
	vecmath.Magnitude(d.mag, d.re, d.im)

	binHz := d.sampleRate / float64(n)
	lo := max(2, int(d.minHz/binHz))
	hi := min(len(d.mag)-2, int(math.Ceil(d.maxHz/binHz)))

	peak := lo
	for k := lo + 1; k <= hi; k++ {
		if d.mag[k] > d.mag[peak] {
			peak = k
		}
	}

	// A Hann-windowed sine of amplitude A peaks at about A*N/4.
	amp := d.mag[peak] * 4 / float64(n)
	d.confidence = amp
	if amp < d.floor {
		d.freq = 0
		return
	}

	// Prefer a strong sub-octave peak: guitar notes often carry more
	// energy in the second harmonic than in the fundamental.
	if sub := d.localPeak(peak / 2); sub >= lo && d.mag[sub] >= octaveCorrectionRatio*d.mag[peak] {
		peak = sub
	}

	d.freq = (float64(peak) + d.interpolate(peak)) * binHz
}

// localPeak returns the largest bin within one bin of k.
func (d *PitchDetector) localPeak(k int) int {
	if k < 1 || k >= len(d.mag)-1 {
		return -1
	}
	best := k
	if d.mag[k-1] > d.mag[best] {
		best = k - 1
	}
	if d.mag[k+1] > d.mag[best] {
		best = k + 1
	}
	return best
}

// interpolate fits a parabola through the log magnitudes around k and
// returns the fractional bin offset in [-0.5, 0.5].
func (d *PitchDetector) interpolate(k int) float64 {
	const tiny = 1e-300
	a := math.Log(d.mag[k-1] + tiny)
	b := math.Log(d.mag[k] + tiny)
	c := math.Log(d.mag[k+1] + tiny)
	den := a - 2*b + c
	if den == 0 {
		return 0
	}
	p := 0.5 * (a - c) / den
	return math.Max(-0.5, math.Min(0.5, p))
}
