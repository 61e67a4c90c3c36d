package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/filter/allpass"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const (
	reverbTuningRate  = 44100.0
	reverbInputGain   = 0.03
	reverbDiffuseGain = 0.5
	reverbMaxPreMs    = 100.0
)

// Comb and allpass lengths in samples at 44.1 kHz.
var (
	reverbCombTuning    = [...]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	reverbAllpassTuning = [...]int{556, 441, 341, 225}
)

// NewReverb returns a Schroeder/Freeverb-style room: parallel damped combs
// into series allpass diffusers, behind a pre-delay.
func NewReverb(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Spec{ID: ParamDecay, Name: "Decay", Min: 0.1, Max: 0.98, Default: 0.8},
		param.Amount(ParamDamping, "Damping", 0.4),
		param.Millis(ParamPreDelay, "Pre-delay", 0, reverbMaxPreMs, 10),
		param.Amount(ParamMix, "Mix", 0.3),
	)
	return newUnit(KindReverb, ps, &reverb{params: ps}, true, opts)
}

type reverbComb struct {
	buf   []float64
	pos   int
	store float64
}

func (c *reverbComb) process(x, feedback, damp float64) float64 {
	out := c.buf[c.pos]
	c.store = core.FlushDenormals(out*(1-damp) + c.store*damp)
	c.buf[c.pos] = x + c.store*feedback
	c.pos++
	if c.pos == len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *reverbComb) reset() {
	clear(c.buf)
	c.pos = 0
	c.store = 0
}

type reverb struct {
	params *param.Set
	sr     float64

	pre      *delay.Line
	combs    [len(reverbCombTuning)]reverbComb
	diffuse  [len(reverbAllpassTuning)]*allpass.Diffuser
	preDelay glide // samples

	feedback float64
	damp     float64
	mix      float64
}

func (r *reverb) Prepare(sampleRate float64, _ int) error {
	pre, err := delay.NewForDuration(sampleRate, reverbMaxPreMs/1000)
	if err != nil {
		return err
	}
	r.sr = sampleRate
	r.pre = pre
	scale := sampleRate / reverbTuningRate
	for i, n := range reverbCombTuning {
		r.combs[i] = reverbComb{buf: make([]float64, max(1, int(float64(n)*scale)))}
	}
	for i, n := range reverbAllpassTuning {
		r.diffuse[i] = allpass.NewDiffuser(max(1, int(float64(n)*scale)), reverbDiffuseGain)
	}
	return nil
}

func (r *reverb) Refresh(id param.ID) {
	switch id {
	case ParamDecay:
		r.feedback = r.params.Read(ParamDecay)
	case ParamDamping:
		r.damp = r.params.Read(ParamDamping)
	case ParamPreDelay:
		r.preDelay.set(r.params.Read(ParamPreDelay) * r.sr / 1000)
	case ParamMix:
		r.mix = r.params.Read(ParamMix)
	}
}

func (r *reverb) Render(in, out []float64) {
	r.preDelay.begin(len(in))
	for i, x := range in {
		r.pre.Write(x)
		s := r.pre.ReadFractional(r.preDelay.next()) * reverbInputGain

		var acc float64
		for c := range r.combs {
			acc += r.combs[c].process(s, r.feedback, r.damp)
		}
		for _, d := range r.diffuse {
			acc = d.ProcessSample(acc)
		}
		out[i] = x*(1-r.mix) + acc*r.mix
	}
	r.preDelay.end()
}

func (r *reverb) Clear() {
	r.pre.Reset()
	for c := range r.combs {
		r.combs[c].reset()
	}
	for _, d := range r.diffuse {
		d.Reset()
	}
	r.preDelay.jump()
}
