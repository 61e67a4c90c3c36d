package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const (
	chorusMaxDepthMs = 8.0
	chorusMaxDelayMs = 30.0
	chorusMaxVoices  = 4
)

// NewChorus returns a multi-voice modulated-delay chorus. Each voice reads
//
//	d(t) = delay + depth * 0.5 * (1 + sin(2*pi*(phase + v/voices)))
func NewChorus(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Rate(ParamRate, "Rate", 0.05, 5, 0.35),
		param.Amount(ParamDepth, "Depth", 0.4),
		param.Millis(ParamDelay, "Delay", 5, chorusMaxDelayMs, 18),
		param.Choice(ParamVoices, "Voices", chorusMaxVoices, 2),
		param.Amount(ParamMix, "Mix", 0.5),
	)
	return newUnit(KindChorus, ps, &chorus{params: ps}, true, opts)
}

type chorus struct {
	params *param.Set
	sr     float64

	line  *delay.Line
	lfo   *osc.LFO
	table *osc.SineTable

	base   glide // samples
	depth  glide // samples
	voices int
	mix    float64
}

func (c *chorus) Prepare(sampleRate float64, _ int) error {
	line, err := delay.NewForDuration(sampleRate, (chorusMaxDelayMs+chorusMaxDepthMs)/1000)
	if err != nil {
		return err
	}
	c.sr = sampleRate
	c.line = line
	c.lfo = osc.NewLFO(sampleRate, c.params.Read(ParamRate))
	c.table = osc.Shared()
	return nil
}

func (c *chorus) Refresh(id param.ID) {
	switch id {
	case ParamRate:
		c.lfo.SetRate(c.params.Read(ParamRate))
	case ParamDepth:
		c.depth.set(c.params.Read(ParamDepth) * chorusMaxDepthMs * c.sr / 1000)
	case ParamDelay:
		c.base.set(c.params.Read(ParamDelay) * c.sr / 1000)
	case ParamVoices:
		c.voices = int(c.params.Read(ParamVoices)) + 1
	case ParamMix:
		c.mix = c.params.Read(ParamMix)
	}
}

func (c *chorus) Render(in, out []float64) {
	n := len(in)
	c.base.begin(n)
	c.depth.begin(n)
	inv := 1 / float64(c.voices)

	for i, x := range in {
		c.line.Write(x)
		base := c.base.next()
		depth := c.depth.next()
		phase := c.lfo.Phase()

		var wet float64
		for v := range c.voices {
			mod := 0.5 * (1 + c.table.At(phase+float64(v)*inv))
			wet += c.line.ReadFractional(base + depth*mod)
		}
		c.lfo.Advance(1)
		out[i] = x*(1-c.mix) + wet*inv*c.mix
	}
	c.base.end()
	c.depth.end()
}

func (c *chorus) Clear() {
	c.line.Reset()
	c.lfo.Reset()
	c.base.jump()
	c.depth.jump()
}
