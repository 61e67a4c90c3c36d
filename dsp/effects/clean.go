package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

// NewClean returns the volume-only pass-through effect.
func NewClean(opts ...Option) *Unit {
	ps := param.MustSet(param.Level(ParamLevel, "Level", -24, 12, 0))
	return newUnit(KindClean, ps, &clean{params: ps}, false, opts)
}

type clean struct {
	params *param.Set
	gain   glide
}

func (c *clean) Prepare(float64, int) error { return nil }

func (c *clean) Refresh(id param.ID) {
	if id == ParamLevel {
		c.gain.set(core.DBToLinear(c.params.Read(ParamLevel)))
	}
}

func (c *clean) Render(in, out []float64) {
	c.gain.begin(len(in))
	for i, x := range in {
		out[i] = x * c.gain.next()
	}
	c.gain.end()
}

func (c *clean) Clear() { c.gain.jump() }
