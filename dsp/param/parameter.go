package param

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

const snapEpsilon = 1e-9

// Parameter is a bounded control value smoothed per block.
type Parameter struct {
	spec Spec

	law        RampLaw
	rampBlocks int
	coef       float64
	sampleRate float64
	blockSize  int

	value  float64
	target float64
	start  float64
	k      int
	total  int

	mod        *Modulator
	pending    *Modulator
	hasPending bool
	modLimit   float64
	modOffset  float64

	dirty bool
}

// New creates a parameter at its default value. The spec must be valid.
func New(s Spec) (*Parameter, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p := &Parameter{spec: s}
	d := s.Constrain(s.Default)
	p.value = d
	p.target = d
	p.start = d
	p.Prepare(48000, 128, DefaultLaws())
	return p, nil
}

// Prepare fixes the ramp law and length for a sample rate and block size.
// A ramp in progress restarts from the current value.
func (p *Parameter) Prepare(sampleRate float64, blockSize int, laws Laws) {
	law, ms := laws.For(p.spec)
	p.law = law
	p.sampleRate = sampleRate
	p.blockSize = blockSize
	p.rampBlocks = RampBlocks(ms, sampleRate, blockSize)
	p.coef = math.Exp(-expTimeConstants / float64(p.rampBlocks))
	if p.mod != nil {
		p.mod.setSampleRate(sampleRate)
	}
	if p.value != p.target {
		p.beginRamp()
	}
}

// Spec returns the declaration.
func (p *Parameter) Spec() Spec { return p.spec }

// ID returns the parameter identity.
func (p *Parameter) ID() ID { return p.spec.ID }

// Law returns the ramp law in use.
func (p *Parameter) Law() RampLaw { return p.law }

// RampBlocks returns the number of blocks a full ramp takes.
func (p *Parameter) RampBlocks() int { return p.rampBlocks }

// SetTarget records a new target. The value heard does not change until
// the next StepRamp. NaN is ignored, and repeating the current target
// leaves a running ramp alone.
func (p *Parameter) SetTarget(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = p.spec.Constrain(v)
	if v == p.target {
		return
	}
	p.target = v
	p.beginRamp()
}

func (p *Parameter) beginRamp() {
	p.start = p.value
	p.k = 0
	p.total = p.rampBlocks
}

// Snap moves value and target to v at once. Used for preset loads, which
// are masked by a mute fade.
func (p *Parameter) Snap(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = p.spec.Constrain(v)
	p.value = v
	p.target = v
	p.start = v
	p.k = 0
	p.total = 0
	p.dirty = true
}

// StepRamp advances the ramp by one block, applies a staged modulator
// binding and advances the bound modulator. It reports whether Read
// changed.
func (p *Parameter) StepRamp() bool {
	before := p.Read()
	dirty := p.dirty
	p.dirty = false

	if p.hasPending {
		p.mod = p.pending
		p.pending = nil
		p.hasPending = false
		p.modOffset = 0
		if p.mod != nil {
			p.mod.setSampleRate(p.sampleRate)
			p.modLimit = p.limitFor(p.mod)
		}
	}

	if p.k < p.total {
		p.k++
		switch {
		case p.k >= p.total:
			p.value = p.target
		case p.law == Exponential:
			p.value = core.FlushDenormals(p.target + (p.value-p.target)*p.coef)
			if math.Abs(p.value-p.target) <= snapEpsilon*math.Max(1, math.Abs(p.target)) {
				p.value = p.target
				p.k = p.total
			}
		default:
			p.value = p.start + (p.target-p.start)*float64(p.k)/float64(p.total)
		}
	}

	if p.mod != nil {
		p.modOffset = p.mod.Offset()
		p.mod.Advance(p.blockSize)
	}

	return dirty || p.Read() != before
}

// limitFor returns the largest offset m may contribute. Additive depth is
// limited to half the range; multiplicative depth to 1.
func (p *Parameter) limitFor(m *Modulator) float64 {
	if m.Mode() == Multiplicative {
		return 1
	}
	return (p.spec.Max - p.spec.Min) / 2
}

// Read returns the value for the current block: base plus modulation,
// clamped and quantized. It has no side effects.
func (p *Parameter) Read() float64 {
	v := p.value
	if p.mod != nil {
		v = p.mod.apply(v, p.modOffset, p.modLimit)
	}
	return p.spec.Constrain(v)
}

// Value returns the smoothed base value without modulation.
func (p *Parameter) Value() float64 { return p.value }

// Target returns the most recent target.
func (p *Parameter) Target() float64 { return p.target }

// Settled reports whether the base value has reached the target.
func (p *Parameter) Settled() bool { return p.k >= p.total }

// BindModulator stages m (or nil to unbind) for the next StepRamp.
func (p *Parameter) BindModulator(m *Modulator) {
	p.pending = m
	p.hasPending = true
}

// Modulator returns the active modulator, or nil.
func (p *Parameter) Modulator() *Modulator { return p.mod }

// ReseedModulator restarts the bound modulator's waveform.
func (p *Parameter) ReseedModulator() {
	if p.mod != nil {
		p.mod.Reseed()
		p.modOffset = 0
		p.dirty = true
	}
}
