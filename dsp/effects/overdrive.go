package effects

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/filter/biquad"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const (
	driveModeOverdrive = 0
	driveModeFuzz      = 1

	drivePreHighpassHz = 120.0
	driveDCCutoffHz    = 10.0
)

// NewOverdrive returns a waveshaping drive with a post tone filter.
// Mode 0 is a symmetric tanh overdrive, mode 1 an asymmetric fuzz.
func NewOverdrive(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Level(ParamDrive, "Drive", 0, 40, 12),
		param.Freq(ParamTone, "Tone", 500, 8000, 2800),
		param.Level(ParamLevel, "Level", -30, 6, -6),
		param.Choice(ParamMode, "Mode", 2, driveModeOverdrive),
	)
	return newUnit(KindOverdrive, ps, &overdrive{params: ps}, false, opts)
}

type overdrive struct {
	params *param.Set
	sr     float64

	pre  *biquad.Section
	tone *biquad.Section
	dc   *biquad.DCBlocker

	drive glide
	level glide
	mode  int
}

func (o *overdrive) Prepare(sampleRate float64, _ int) error {
	o.sr = sampleRate
	o.pre = biquad.NewSection(biquad.HighPass(sampleRate, drivePreHighpassHz, 0.707))
	o.tone = biquad.NewSection(biquad.LowPass(sampleRate, o.params.Read(ParamTone), 0.707))
	o.dc = biquad.NewDCBlocker(sampleRate, driveDCCutoffHz)
	return nil
}

func (o *overdrive) Refresh(id param.ID) {
	switch id {
	case ParamDrive:
		o.drive.set(core.DBToLinear(o.params.Read(ParamDrive)))
	case ParamTone:
		o.tone.SetCoefficients(biquad.LowPass(o.sr, o.params.Read(ParamTone), 0.707))
	case ParamLevel:
		o.level.set(core.DBToLinear(o.params.Read(ParamLevel)))
	case ParamMode:
		o.mode = int(o.params.Read(ParamMode))
	}
}

func (o *overdrive) shape(x float64) float64 {
	if o.mode == driveModeFuzz {
		if x >= 0 {
			return 1 - math.Exp(-x)
		}
		return -0.8 * (1 - math.Exp(1.5*x))
	}
	return math.Tanh(x)
}

func (o *overdrive) Render(in, out []float64) {
	n := len(in)
	o.drive.begin(n)
	o.level.begin(n)
	for i, x := range in {
		y := o.shape(o.pre.ProcessSample(x) * o.drive.next())
		y = o.tone.ProcessSample(o.dc.ProcessSample(y))
		out[i] = y * o.level.next()
	}
	o.drive.end()
	o.level.end()
	o.pre.FlushState()
	o.tone.FlushState()
}

func (o *overdrive) Clear() {
	o.pre.Reset()
	o.tone.Reset()
	o.dc.Reset()
	o.drive.jump()
	o.level.jump()
}
