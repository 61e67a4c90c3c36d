package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const (
	flangerMaxSweepMs  = 4.0
	flangerMaxManualMs = 5.0
)

// NewFlanger returns a short modulated delay with feedback.
func NewFlanger(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Rate(ParamRate, "Rate", 0.05, 5, 0.25),
		param.Amount(ParamDepth, "Depth", 0.7),
		param.Millis(ParamManual, "Manual", 0.3, flangerMaxManualMs, 1),
		param.Spec{ID: ParamFeedback, Name: "Feedback", Min: -0.95, Max: 0.95, Default: 0.5},
		param.Amount(ParamMix, "Mix", 0.5),
	)
	return newUnit(KindFlanger, ps, &flanger{params: ps}, true, opts)
}

type flanger struct {
	params *param.Set
	sr     float64

	line *delay.Line
	lfo  *osc.LFO

	manual   glide // samples
	sweep    glide // samples
	feedback float64
	mix      float64
}

func (f *flanger) Prepare(sampleRate float64, _ int) error {
	line, err := delay.NewForDuration(sampleRate, (flangerMaxManualMs+flangerMaxSweepMs)/1000)
	if err != nil {
		return err
	}
	f.sr = sampleRate
	f.line = line
	f.lfo = osc.NewLFO(sampleRate, f.params.Read(ParamRate))
	f.lfo.SetShape(osc.Triangle)
	return nil
}

func (f *flanger) Refresh(id param.ID) {
	switch id {
	case ParamRate:
		f.lfo.SetRate(f.params.Read(ParamRate))
	case ParamDepth:
		f.sweep.set(f.params.Read(ParamDepth) * flangerMaxSweepMs * f.sr / 1000)
	case ParamManual:
		f.manual.set(f.params.Read(ParamManual) * f.sr / 1000)
	case ParamFeedback:
		f.feedback = f.params.Read(ParamFeedback)
	case ParamMix:
		f.mix = f.params.Read(ParamMix)
	}
}

func (f *flanger) Render(in, out []float64) {
	n := len(in)
	f.manual.begin(n)
	f.sweep.begin(n)
	for i, x := range in {
		mod := 0.5 * (1 + f.lfo.Next())
		d := f.manual.next() + f.sweep.next()*mod
		y := f.line.ReadFractional(d)
		f.line.Write(core.FlushDenormals(x + f.feedback*y))
		out[i] = x*(1-f.mix) + y*f.mix
	}
	f.manual.end()
	f.sweep.end()
}

func (f *flanger) Clear() {
	f.line.Reset()
	f.lfo.Reset()
	f.manual.jump()
	f.sweep.jump()
}
