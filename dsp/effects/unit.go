package effects

import (
	"fmt"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/fader"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

// Kernel is the algorithm-specific part of a Unit.
type Kernel interface {
	// Prepare allocates buffers for the session.
	Prepare(sampleRate float64, blockSize int) error
	// Refresh re-reads the parameter id and updates derived state.
	Refresh(id param.ID)
	// Render processes in into out. len(in) never exceeds the block size
	// and in never aliases out.
	Render(in, out []float64)
	// Clear zeroes history and restarts internal oscillators.
	Clear()
}

// Unit adapts a Kernel to the Effect contract.
type Unit struct {
	kind        Kind
	params      *param.Set
	kernel      Kernel
	resetOnLoad bool
	cfg         unitConfig

	sampleRate float64
	blockSize  int
	prepared   bool

	bypassed bool
	wetGain  *fader.Ramp
	gains    []float64
	wet      []float64
	scratch  []float64

	recoveries uint64
}

func newUnit(kind Kind, params *param.Set, k Kernel, resetOnLoad bool, opts []Option) *Unit {
	cfg := defaultUnitConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Unit{
		kind:        kind,
		params:      params,
		kernel:      k,
		resetOnLoad: resetOnLoad,
		cfg:         cfg,
		wetGain:     fader.NewRamp(1),
	}
}

// Kind returns the algorithm tag.
func (u *Unit) Kind() Kind { return u.kind }

// Params returns the parameters in declaration order.
func (u *Unit) Params() *param.Set { return u.params }

// NeedsResetOnLoad reports whether preset loads clear history.
func (u *Unit) NeedsResetOnLoad() bool { return u.resetOnLoad }

// Kernel returns the algorithm implementation.
func (u *Unit) Kernel() Kernel { return u.kernel }

// Prepare allocates buffers, configures ramps and refreshes all derived
// state from current parameter values.
func (u *Unit) Prepare(sampleRate float64, blockSize int) error {
	pc := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, u.kind, err)
	}
	if err := u.kernel.Prepare(sampleRate, blockSize); err != nil {
		return fmt.Errorf("effects: %s: prepare: %w", u.kind, err)
	}

	u.sampleRate = sampleRate
	u.blockSize = blockSize
	u.gains = make([]float64, blockSize)
	u.wet = make([]float64, blockSize)
	u.scratch = make([]float64, blockSize)
	u.params.Prepare(sampleRate, blockSize, u.cfg.laws)

	for i := range u.params.Len() {
		u.kernel.Refresh(u.params.At(i).ID())
	}
	u.kernel.Clear()
	u.recoveries = 0
	u.prepared = true
	return nil
}

// Prepared reports whether Prepare succeeded.
func (u *Unit) Prepared() bool { return u.prepared }

// BeginBlock steps the parameter set and refreshes every changed control.
func (u *Unit) BeginBlock() {
	if !u.prepared {
		return
	}
	for _, i := range u.params.Step() {
		u.kernel.Refresh(u.params.At(i).ID())
	}
}

// OnParameterChanged forwards to the kernel.
func (u *Unit) OnParameterChanged(id param.ID) {
	if u.prepared {
		u.kernel.Refresh(id)
	}
}

// Reset clears kernel history.
func (u *Unit) Reset() {
	if u.prepared {
		u.kernel.Clear()
	}
}

// ReseedModulators restarts every bound modulator.
func (u *Unit) ReseedModulators() {
	for i := range u.params.Len() {
		u.params.At(i).ReseedModulator()
	}
}

// SetBypass fades the wet path out or in. Leaving a completed bypass
// clears history first so stale state is never heard.
func (u *Unit) SetBypass(bypassed bool) {
	if bypassed == u.bypassed {
		return
	}
	u.bypassed = bypassed
	n := fader.Samples(u.cfg.bypassFadeMs, u.sampleRate)
	if bypassed {
		u.wetGain.Start(0, n)
		return
	}
	if u.prepared && u.wetGain.Value() == 0 {
		u.kernel.Clear()
	}
	u.wetGain.Start(1, n)
}

// Bypassed reports the requested bypass state.
func (u *Unit) Bypassed() bool { return u.bypassed }

// Recoveries returns how many output samples were replaced since Prepare.
func (u *Unit) Recoveries() uint64 { return u.recoveries }

// Measurement forwards to the kernel when it reports a reading.
func (u *Unit) Measurement() (float64, bool) {
	if m, ok := u.kernel.(Measurer); ok && !u.bypassed {
		return m.Measurement()
	}
	return 0, false
}

// ProcessBlock renders in into out, block by block.
func (u *Unit) ProcessBlock(in, out []float64) {
	n := min(len(in), len(out))
	if !u.prepared {
		copy(out[:n], in[:n])
		return
	}
	for off := 0; off < n; off += u.blockSize {
		end := min(off+u.blockSize, n)
		u.render(in[off:end], out[off:end])
	}
}

func (u *Unit) render(in, out []float64) {
	n := len(in)
	if u.wetGain.Done() && u.wetGain.Value() == 0 {
		copy(out, in)
		return
	}

	wet := u.wet[:n]
	u.kernel.Render(in, wet)
	if k := core.SanitizeBlock(wet, u.cfg.sampleLimit); k > 0 {
		u.kernel.Clear()
		u.recoveries += uint64(k)
	}

	if u.wetGain.Done() {
		copy(out, wet)
		return
	}
	g := u.gains[:n]
	u.wetGain.Fill(g)
	fader.Mix(out, in, wet, g, u.scratch[:n])
}
