package effects

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

// autoWahControlInterval is the number of samples between filter
// coefficient updates.
const autoWahControlInterval = 16

// NewAutoWah returns an envelope-followed bandpass sweep.
func NewAutoWah(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Amount(ParamSensitivity, "Sensitivity", 0.6),
		param.Freq(ParamMinFreq, "Low", 200, 1000, 350),
		param.Freq(ParamMaxFreq, "High", 800, 4000, 2200),
		param.Spec{ID: ParamQ, Name: "Q", Min: 0.5, Max: 10, Default: 3},
		param.Millis(ParamAttack, "Attack", 1, 50, 8),
		param.Millis(ParamRelease, "Release", 20, 500, 120),
		param.Amount(ParamMix, "Mix", 1),
	)
	return newUnit(KindAutoWah, ps, &autoWah{params: ps}, false, opts)
}

type autoWah struct {
	params *param.Set
	sr     float64
	bp     *biquad.Section

	env         float64
	attackCoef  float64
	releaseCoef float64
	sensitivity float64
	lo, hi, q   float64
	mix         float64
	countdown   int
	centerHz    float64
}

func (a *autoWah) Prepare(sampleRate float64, _ int) error {
	a.sr = sampleRate
	a.bp = biquad.NewSection(biquad.BandPass(sampleRate, 500, 3))
	return nil
}

func (a *autoWah) Refresh(id param.ID) {
	switch id {
	case ParamSensitivity:
		a.sensitivity = a.params.Read(ParamSensitivity)
	case ParamMinFreq, ParamMaxFreq:
		a.lo = a.params.Read(ParamMinFreq)
		a.hi = math.Max(a.lo, a.params.Read(ParamMaxFreq))
	case ParamQ:
		a.q = a.params.Read(ParamQ)
	case ParamAttack:
		a.attackCoef = core.SmoothingCoefficient(a.params.Read(ParamAttack), a.sr)
	case ParamRelease:
		a.releaseCoef = core.SmoothingCoefficient(a.params.Read(ParamRelease), a.sr)
	case ParamMix:
		a.mix = a.params.Read(ParamMix)
	}
}

func (a *autoWah) Render(in, out []float64) {
	for i, x := range in {
		level := math.Abs(x)
		coef := a.releaseCoef
		if level > a.env {
			coef = a.attackCoef
		}
		a.env += coef * (level - a.env)

		if a.countdown <= 0 {
			a.countdown = autoWahControlInterval
			a.updateFilter()
		}
		a.countdown--

		out[i] = x*(1-a.mix) + a.bp.ProcessSample(x)*a.mix
	}
	a.env = core.FlushDenormals(a.env)
	a.bp.FlushState()
}

func (a *autoWah) updateFilter() {
	sweep := core.Clamp(a.env*a.sensitivity*4, 0, 1)
	a.centerHz = a.lo * math.Pow(a.hi/a.lo, sweep)
	a.bp.SetCoefficients(biquad.BandPass(a.sr, a.centerHz, a.q))
}

// Measurement returns the current filter centre frequency in Hz.
func (a *autoWah) Measurement() (float64, bool) { return a.centerHz, a.centerHz > 0 }

func (a *autoWah) Clear() {
	a.bp.Reset()
	a.env = 0
	a.countdown = 0
}
