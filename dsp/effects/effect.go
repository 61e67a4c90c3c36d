package effects

import (
	"errors"

	"github.com/cwbudde/algo-pedal/dsp/param"
)

// Kind tags an effect algorithm.
type Kind string

const (
	KindClean     Kind = "clean"
	KindChorus    Kind = "chorus"
	KindFlanger   Kind = "flanger"
	KindPhaser    Kind = "phaser"
	KindTremolo   Kind = "tremolo"
	KindEcho      Kind = "echo"
	KindPitch     Kind = "pitch"
	KindOverdrive Kind = "overdrive"
	KindAutoWah   Kind = "autowah"
	KindReverb    Kind = "reverb"
	KindTuner     Kind = "tuner"
)

// Kinds lists every built-in kind in registry order.
func Kinds() []Kind {
	return []Kind{
		KindClean, KindChorus, KindFlanger, KindPhaser, KindTremolo, KindEcho,
		KindPitch, KindOverdrive, KindAutoWah, KindReverb, KindTuner,
	}
}

var (
	ErrUnknownKind   = errors.New("effects: unknown kind")
	ErrInvalidConfig = errors.New("effects: invalid processor config")
)

// Effect is the lifecycle every slot mode implements.
type Effect interface {
	Kind() Kind
	Params() *param.Set

	// Prepare allocates for a session. Control context only.
	Prepare(sampleRate float64, blockSize int) error

	// BeginBlock steps parameter ramps and modulators once per block and
	// calls OnParameterChanged for each control whose value moved.
	BeginBlock()

	// ProcessBlock renders len(in) samples into out. in and out may alias.
	ProcessBlock(in, out []float64)

	// OnParameterChanged recomputes state derived from id.
	OnParameterChanged(id param.ID)

	// Reset clears history so the next block starts from silence.
	Reset()

	SetBypass(bypassed bool)
	Bypassed() bool

	// NeedsResetOnLoad reports whether a preset load must clear history,
	// as for delay-based algorithms.
	NeedsResetOnLoad() bool

	// Recoveries counts output samples replaced because they were not
	// finite, since Prepare.
	Recoveries() uint64
}

// Measurer is implemented by effects that report a reading, such as the
// tuner's detected frequency.
type Measurer interface {
	Measurement() (value float64, ok bool)
}
