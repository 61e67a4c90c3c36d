package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/delay"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/osc"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const (
	echoMaxTimeMs = 1500.0
	echoMaxWowMs  = 3.0
	echoWowRateHz = 0.6
	echoHighpass  = 60.0
)

// NewEcho returns a tape-style delay: the feedback path is band-limited so
// repeats darken, and a slow modulator bound to the time control adds wow.
func NewEcho(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Millis(ParamTime, "Time", 20, echoMaxTimeMs, 350),
		param.Spec{ID: ParamFeedback, Name: "Feedback", Min: 0, Max: 0.95, Default: 0.4, Category: param.Mix},
		param.Freq(ParamTone, "Tone", 800, 12000, 4500),
		param.Spec{ID: ParamWow, Name: "Wow", Unit: "ms", Min: 0, Max: echoMaxWowMs, Default: 0.3},
		param.Amount(ParamMix, "Mix", 0.35),
	)
	wow := param.NewModulator(osc.Sine, echoWowRateHz, 0, param.Additive)
	if p, ok := ps.Get(ParamTime); ok {
		p.BindModulator(wow)
	}
	return newUnit(KindEcho, ps, &echo{params: ps, wow: wow}, true, opts)
}

type echo struct {
	params *param.Set
	wow    *param.Modulator
	sr     float64

	line *delay.Line
	lp   *biquad.Section
	hp   *biquad.Section

	time     glide // samples
	feedback float64
	mix      float64
}

func (e *echo) Prepare(sampleRate float64, _ int) error {
	line, err := delay.NewForDuration(sampleRate, (echoMaxTimeMs+echoMaxWowMs)/1000)
	if err != nil {
		return err
	}
	e.sr = sampleRate
	e.line = line
	e.lp = biquad.NewSection(biquad.LowPass(sampleRate, e.params.Read(ParamTone), 0.707))
	e.hp = biquad.NewSection(biquad.HighPass(sampleRate, echoHighpass, 0.707))
	return nil
}

func (e *echo) Refresh(id param.ID) {
	switch id {
	case ParamTime:
		e.time.set(max(1, e.params.Read(ParamTime)*e.sr/1000))
	case ParamFeedback:
		e.feedback = e.params.Read(ParamFeedback)
	case ParamTone:
		e.lp.SetCoefficients(biquad.LowPass(e.sr, e.params.Read(ParamTone), 0.707))
	case ParamWow:
		e.wow.SetDepth(e.params.Read(ParamWow))
	case ParamMix:
		e.mix = e.params.Read(ParamMix)
	}
}

func (e *echo) Render(in, out []float64) {
	e.time.begin(len(in))
	for i, x := range in {
		// Reading before writing adds one sample, so read at d-1.
		y := e.line.ReadFractional(e.time.next() - 1)
		fb := e.hp.ProcessSample(e.lp.ProcessSample(y)) * e.feedback
		e.line.Write(core.FlushDenormals(x + fb))
		out[i] = x*(1-e.mix) + y*e.mix
	}
	e.time.end()
	e.lp.FlushState()
	e.hp.FlushState()
}

func (e *echo) Clear() {
	e.line.Reset()
	e.lp.Reset()
	e.hp.Reset()
	e.time.jump()
}
