package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrepared(t *testing.T, kind Kind) Effect {
	t.Helper()
	e, err := DefaultRegistry().New(kind)
	require.NoError(t, err)
	require.NoError(t, e.Prepare(testRate, testBlock))
	return e
}

func process(e Effect, in []float64) []float64 {
	out := make([]float64, len(in))
	e.ProcessBlock(in, out)
	return out
}

func TestKindsDeclareValidParameters(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			e := newPrepared(t, kind)
			assert.Equal(t, kind, e.Kind())
			ps := e.Params()
			require.Positive(t, ps.Len())
			for i := range ps.Len() {
				p := ps.At(i)
				require.NoError(t, p.Spec().Validate(), "param %s", p.ID())
				v := p.Read()
				assert.True(t, v >= p.Spec().Min && v <= p.Spec().Max, "param %s default %v", p.ID(), v)
			}
		})
	}
}

func TestKindsRenderBoundedNoise(t *testing.T) {
	in := testutil.DeterministicNoise(7, 0.8, 9600)
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			e := newPrepared(t, kind)
			out := process(e, in)
			testutil.RequireBounded(t, out, core.DefaultSampleLimit)
		})
	}
}

func TestKindsSilenceStaysSilent(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			e := newPrepared(t, kind)
			for i, y := range process(e, make([]float64, 4096)) {
				require.Zero(t, y, "sample %d", i)
			}
		})
	}
}

func TestKindsResetMatchesFreshInstance(t *testing.T) {
	probe := testutil.DeterministicNoise(11, 0.5, 4000)
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			fresh := newPrepared(t, kind)
			used := newPrepared(t, kind)

			process(used, testutil.DeterministicNoise(12, 0.7, 3000))
			used.Reset()

			assert.Equal(t, process(fresh, probe), process(used, probe))
		})
	}
}

func TestKindsRecoverFromNaN(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			e := newPrepared(t, kind)
			bad := testutil.DeterministicNoise(5, 0.5, testBlock)
			bad[17] = math.NaN()
			testutil.RequireFinite(t, process(e, bad))
			testutil.RequireFinite(t, process(e, testutil.DeterministicNoise(6, 0.5, 4096)))
		})
	}
}

func TestResetOnLoadFlags(t *testing.T) {
	want := map[Kind]bool{
		KindChorus:  true,
		KindFlanger: true,
		KindEcho:    true,
		KindPitch:   true,
		KindReverb:  true,
	}
	for _, kind := range Kinds() {
		e, err := DefaultRegistry().New(kind)
		require.NoError(t, err)
		assert.Equal(t, want[kind], e.NeedsResetOnLoad(), "kind %s", kind)
	}
}

func TestAutoWahFollowsEnvelope(t *testing.T) {
	e := newPrepared(t, KindAutoWah)
	m, ok := e.(Measurer)
	require.True(t, ok)

	process(e, make([]float64, 1024))
	quiet, ok := m.Measurement()
	require.True(t, ok)

	process(e, testutil.DeterministicSine(220, testRate, 0.8, 4800))
	loud, _ := m.Measurement()
	assert.Greater(t, loud, quiet*1.5)
}

func TestAutoWahSweepsBackAsNoteDecays(t *testing.T) {
	e := newPrepared(t, KindAutoWah)
	m := e.(Measurer)
	note := testutil.Pluck(110, testRate, 0.8, 0.1, 48000)

	process(e, note[:2400])
	attack, _ := m.Measurement()
	process(e, note[2400:])
	tail, _ := m.Measurement()
	assert.Less(t, tail, attack)
}

func TestPitchOctaveUp(t *testing.T) {
	e := newPrepared(t, KindPitch)
	u := e.(*Unit)
	snap(t, u, ParamMix, 1)

	in := testutil.DeterministicSine(250, testRate, 0.5, 48000)
	out := process(e, in)

	det := newPrepared(t, KindTuner)
	process(det, out[8192:])
	f, ok := det.(Measurer).Measurement()
	require.True(t, ok)
	assert.InDelta(t, 500, f, 5)
}
