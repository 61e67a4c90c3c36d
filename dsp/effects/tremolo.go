package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const tremoloSmoothingMs = 1.5

var tremoloShapes = [...]osc.Shape{osc.Sine, osc.Triangle, osc.Square}

// NewTremolo returns an LFO-driven amplitude modulator. Square shape is
// slewed so edges do not click.
func NewTremolo(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Rate(ParamRate, "Rate", 0.5, 15, 5),
		param.Amount(ParamDepth, "Depth", 0.6),
		param.Choice(ParamShape, "Shape", len(tremoloShapes), 0),
	)
	return newUnit(KindTremolo, ps, &tremolo{params: ps}, false, opts)
}

type tremolo struct {
	params *param.Set
	lfo    *osc.LFO
	depth  float64
	gain   float64
	coef   float64
}

func (t *tremolo) Prepare(sampleRate float64, _ int) error {
	t.lfo = osc.NewLFO(sampleRate, t.params.Read(ParamRate))
	t.coef = core.SmoothingCoefficient(tremoloSmoothingMs, sampleRate)
	return nil
}

func (t *tremolo) Refresh(id param.ID) {
	switch id {
	case ParamRate:
		t.lfo.SetRate(t.params.Read(ParamRate))
	case ParamDepth:
		t.depth = t.params.Read(ParamDepth)
	case ParamShape:
		t.lfo.SetShape(tremoloShapes[int(t.params.Read(ParamShape))])
	}
}

func (t *tremolo) Render(in, out []float64) {
	for i, x := range in {
		target := 1 - t.depth*0.5*(1+t.lfo.Next())
		t.gain += t.coef * (target - t.gain)
		out[i] = x * t.gain
	}
}

func (t *tremolo) Clear() {
	t.lfo.Reset()
	t.gain = 1 - t.depth*0.5*(1+t.lfo.Value())
}
