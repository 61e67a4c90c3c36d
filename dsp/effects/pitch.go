package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/param"
	"github.com/cwbudde/algo-pedal/dsp/pitch"
)

// NewPitch returns a transposer blending the shifted signal with the dry
// input. Semitone changes apply on the next block.
func NewPitch(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Spec{ID: ParamSemitones, Name: "Interval", Unit: "st", Min: -12, Max: 12, Default: 12, Step: 1, Category: param.Stepped},
		param.Amount(ParamMix, "Mix", 0.5),
	)
	return newUnit(KindPitch, ps, &pitchShift{params: ps}, true, opts)
}

type pitchShift struct {
	params  *param.Set
	shifter *pitch.Shifter
	mix     float64
}

func (p *pitchShift) Prepare(sampleRate float64, _ int) error {
	s, err := pitch.NewShifter(sampleRate)
	if err != nil {
		return err
	}
	p.shifter = s
	return nil
}

func (p *pitchShift) Refresh(id param.ID) {
	switch id {
	case ParamSemitones:
		p.shifter.SetSemitones(p.params.Read(ParamSemitones))
	case ParamMix:
		p.mix = p.params.Read(ParamMix)
	}
}

func (p *pitchShift) Render(in, out []float64) {
	for i, x := range in {
		out[i] = x*(1-p.mix) + p.shifter.ProcessSample(x)*p.mix
	}
}

func (p *pitchShift) Clear() { p.shifter.Reset() }
