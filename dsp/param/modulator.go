package param

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/osc"
)

// ModMode selects how a modulator combines with the base value.
type ModMode int

const (
	// Additive adds depth*wave in parameter units.
	Additive ModMode = iota
	// Multiplicative scales the base value by 1 + depth*wave.
	Multiplicative
)

// Modulator is a periodic source bound to at most one parameter.
type Modulator struct {
	lfo   *osc.LFO
	depth float64
	mode  ModMode
}

// NewModulator returns a modulator with the given waveform, rate in Hz and
// depth. Depth is in parameter units for Additive and a fraction of the
// base value for Multiplicative.
func NewModulator(shape osc.Shape, rateHz, depth float64, mode ModMode) *Modulator {
	m := &Modulator{lfo: osc.NewLFO(48000, rateHz), mode: mode}
	m.lfo.SetShape(shape)
	m.SetDepth(depth)
	return m
}

// SetDepth sets the modulation depth. Negative or NaN depths become 0.
func (m *Modulator) SetDepth(depth float64) {
	if !(depth > 0) {
		depth = 0
	}
	m.depth = depth
}

// Depth returns the configured depth.
func (m *Modulator) Depth() float64 { return m.depth }

// Mode returns how the modulator combines with its parameter.
func (m *Modulator) Mode() ModMode { return m.mode }

// SetRate sets the waveform rate in Hz.
func (m *Modulator) SetRate(hz float64) { m.lfo.SetRate(hz) }

// Rate returns the waveform rate in Hz.
func (m *Modulator) Rate() float64 { return m.lfo.Rate() }

// SetShape changes the waveform.
func (m *Modulator) SetShape(s osc.Shape) { m.lfo.SetShape(s) }

// SetPhase sets the start phase in cycles used by Reseed.
func (m *Modulator) SetPhase(cycles float64) { m.lfo.SetPhase(cycles) }

// Reseed restarts the waveform from its start phase.
func (m *Modulator) Reseed() { m.lfo.Reset() }

// Offset returns depth*wave at the current position.
func (m *Modulator) Offset() float64 { return m.depth * m.lfo.Value() }

// Advance moves the waveform forward by n samples.
func (m *Modulator) Advance(n int) { m.lfo.Advance(n) }

func (m *Modulator) setSampleRate(sr float64) { m.lfo.SetSampleRate(sr) }

// apply combines base with offset under the modulator's mode. limit bounds
// the offset to what the parameter range can absorb.
func (m *Modulator) apply(base, offset, limit float64) float64 {
	offset = math.Max(-limit, math.Min(limit, offset))
	if m.mode == Multiplicative {
		return base * (1 + offset)
	}
	return base + offset
}
