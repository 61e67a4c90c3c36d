package fader

import "math"

// Ramp moves a gain in [0, 1] linearly to a target over a fixed number of
// samples. Successive values never leave the segment between the start
// value and the target, and the final sample lands exactly on the target.
type Ramp struct {
	from   float64
	target float64
	value  float64
	k      int
	total  int
}

// NewRamp returns a settled ramp at value.
func NewRamp(value float64) *Ramp {
	r := &Ramp{}
	r.Jump(value)
	return r
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Jump sets the value immediately and cancels any ramp in progress.
func (r *Ramp) Jump(v float64) {
	v = clampUnit(v)
	r.from = v
	r.target = v
	r.value = v
	r.k = 0
	r.total = 0
}

// Start begins a ramp from the current value to target over samples.
// samples <= 0 jumps.
func (r *Ramp) Start(target float64, samples int) {
	target = clampUnit(target)
	if samples <= 0 || target == r.value {
		r.Jump(target)
		return
	}
	r.from = r.value
	r.target = target
	r.k = 0
	r.total = samples
}

// Value returns the gain of the most recently produced sample.
func (r *Ramp) Value() float64 { return r.value }

// Target returns the value the ramp is heading to.
func (r *Ramp) Target() float64 { return r.target }

// Done reports whether the ramp has reached its target.
func (r *Ramp) Done() bool { return r.k >= r.total }

// Remaining returns the number of samples left in the ramp.
func (r *Ramp) Remaining() int { return r.total - r.k }

// Next advances one sample and returns the new gain.
func (r *Ramp) Next() float64 {
	if r.k >= r.total {
		return r.value
	}
	r.k++
	if r.k == r.total {
		r.value = r.target
	} else {
		r.value = r.from + (r.target-r.from)*float64(r.k)/float64(r.total)
	}
	return r.value
}

// Fill writes one gain per sample into dst.
func (r *Ramp) Fill(dst []float64) {
	if r.Done() {
		v := r.value
		for i := range dst {
			dst[i] = v
		}
		return
	}
	for i := range dst {
		dst[i] = r.Next()
	}
}

// Samples converts a duration in milliseconds to a whole sample count,
// rounding up. Non-positive durations give 0.
func Samples(ms, sampleRate float64) int {
	if !(ms > 0) || !(sampleRate > 0) {
		return 0
	}
	return int(math.Ceil(ms * sampleRate / 1000))
}
