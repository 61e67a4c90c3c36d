package effects

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/allpass"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const maxPhaserStages = 12

// NewPhaser returns a swept chain of first-order allpass stages with
// feedback. The stage count is 2, 4, ... 12.
func NewPhaser(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Rate(ParamRate, "Rate", 0.05, 8, 0.4),
		param.Amount(ParamDepth, "Depth", 1),
		param.Choice(ParamStages, "Stages", maxPhaserStages/2, 2),
		param.Spec{ID: ParamFeedback, Name: "Feedback", Min: -0.9, Max: 0.9, Default: 0.2},
		param.Freq(ParamMinFreq, "Low", 100, 2000, 300),
		param.Freq(ParamMaxFreq, "High", 500, 8000, 1600),
		param.Amount(ParamMix, "Mix", 0.5),
	)
	return newUnit(KindPhaser, ps, &phaser{params: ps}, false, opts)
}

type phaser struct {
	params *param.Set
	sr     float64
	lfo    *osc.LFO

	stages   [maxPhaserStages]allpass.FirstOrder
	active   int
	fb       float64
	feedback float64
	depth    float64
	lo, hi   float64
	mix      float64
}

func (p *phaser) Prepare(sampleRate float64, _ int) error {
	p.sr = sampleRate
	p.lfo = osc.NewLFO(sampleRate, p.params.Read(ParamRate))
	return nil
}

func (p *phaser) Refresh(id param.ID) {
	switch id {
	case ParamRate:
		p.lfo.SetRate(p.params.Read(ParamRate))
	case ParamDepth:
		p.depth = p.params.Read(ParamDepth)
	case ParamStages:
		p.active = 2 * (int(p.params.Read(ParamStages)) + 1)
	case ParamFeedback:
		p.feedback = p.params.Read(ParamFeedback)
	case ParamMinFreq, ParamMaxFreq:
		p.lo = p.params.Read(ParamMinFreq)
		p.hi = p.params.Read(ParamMaxFreq)
		if p.hi < p.lo {
			p.lo, p.hi = p.hi, p.lo
		}
	case ParamMix:
		p.mix = p.params.Read(ParamMix)
	}
}

func (p *phaser) Render(in, out []float64) {
	ratio := p.hi / p.lo
	for i, x := range in {
		sweep := p.depth * 0.5 * (1 + p.lfo.Next())
		a := allpass.Coefficient(p.lo*math.Pow(ratio, sweep), p.sr)

		y := x + p.fb*p.feedback
		for s := range p.active {
			y = p.stages[s].Process(y, a)
		}
		p.fb = core.FlushDenormals(y)
		out[i] = x*(1-p.mix) + y*p.mix
	}
	for s := range p.active {
		p.stages[s].Flush()
	}
}

func (p *phaser) Clear() {
	for s := range p.stages {
		p.stages[s].Reset()
	}
	p.fb = 0
	p.lfo.Reset()
}
