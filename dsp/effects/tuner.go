package effects

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/meter"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const tunerFrameSize = 4096

// NewTuner returns the tuner mode: the input is analysed and the output is
// muted unless monitor is on.
func NewTuner(opts ...Option) *Unit {
	ps := param.MustSet(
		param.Spec{ID: ParamReference, Name: "A4", Unit: "Hz", Min: 430, Max: 450, Default: 440, Step: 1},
		param.Choice(ParamMonitor, "Monitor", 2, 0),
	)
	return newUnit(KindTuner, ps, &tuner{params: ps}, false, opts)
}

type tuner struct {
	params    *param.Set
	detector  *meter.PitchDetector
	monitor   bool
	reference float64
}

func (t *tuner) Prepare(sampleRate float64, _ int) error {
	d, err := meter.NewPitchDetector(sampleRate, tunerFrameSize)
	if err != nil {
		return err
	}
	t.detector = d
	return nil
}

func (t *tuner) Refresh(id param.ID) {
	switch id {
	case ParamReference:
		t.reference = t.params.Read(ParamReference)
	case ParamMonitor:
		t.monitor = t.params.Read(ParamMonitor) >= 1
	}
}

func (t *tuner) Render(in, out []float64) {
	t.detector.Write(in)
	if t.monitor {
		copy(out, in)
		return
	}
	clear(out)
}

func (t *tuner) Clear() { t.detector.Reset() }

// Measurement returns the detected frequency in Hz.
func (t *tuner) Measurement() (float64, bool) {
	f := t.detector.Frequency()
	return f, f > 0
}

// Note returns the nearest MIDI note number to freqHz and the deviation in
// cents for the reference pitch of A4.
func Note(freqHz, referenceHz float64) (note int, cents float64) {
	if !(freqHz > 0) || !(referenceHz > 0) {
		return 0, 0
	}
	semis := 12 * math.Log2(freqHz/referenceHz)
	nearest := math.Round(semis)
	return 69 + int(nearest), 100 * (semis - nearest)
}
