package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/dsp/meter"
	"github.com/cwbudde/algo-pedal/internal/testutil"
)

func detect(t *testing.T, sig []float64) float64 {
	t.Helper()
	d, err := meter.NewPitchDetector(48000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+128 <= len(sig); i += 128 {
		d.Write(sig[i : i+128])
	}
	return d.Frequency()
}

func TestShifterTransposes(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
	}{
		{name: "octave up", ratio: 2},
		{name: "fifth up", ratio: 1.5},
		{name: "octave down", ratio: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShifter(48000)
			if err != nil {
				t.Fatal(err)
			}
			s.SetRatio(tt.ratio)
			// 250 Hz spans a whole number of cycles per window, so both
			// heads stay phase aligned.
			sig := testutil.DeterministicSine(250, 48000, 0.5, 48000)
			s.ProcessInPlace(sig)
			testutil.RequireFinite(t, sig)

			want := 250 * tt.ratio
			if got := detect(t, sig); math.Abs(got-want) > want*0.02 {
				t.Fatalf("detected %v Hz, want %v", got, want)
			}
		})
	}
}

func TestShifterUnityIsDelayedCopy(t *testing.T) {
	s, err := NewShifter(48000)
	if err != nil {
		t.Fatal(err)
	}
	in := testutil.DeterministicNoise(3, 0.5, 4000)
	out := make([]float64, len(in))
	copy(out, in)
	s.ProcessInPlace(out)

	// With ratio 1 the heads stop at phase 0; head 1 carries full gain.
	lag := int(s.Latency())
	for i := lag; i < len(in); i++ {
		if math.Abs(out[i]-in[i-lag]) > 1e-9 {
			t.Fatalf("sample %d: got %v want %v", i, out[i], in[i-lag])
		}
	}
}

func TestShifterClampsRatio(t *testing.T) {
	s, err := NewShifter(44100)
	if err != nil {
		t.Fatal(err)
	}
	s.SetRatio(8)
	if s.Ratio() != MaxRatio {
		t.Fatalf("Ratio() = %v", s.Ratio())
	}
	s.SetSemitones(-24)
	if s.Ratio() != MinRatio {
		t.Fatalf("Ratio() = %v", s.Ratio())
	}
	s.SetWindow(1)
	if s.Window() != minWindowMs {
		t.Fatalf("Window() = %v", s.Window())
	}
}

func TestShifterResetDeterministic(t *testing.T) {
	s, err := NewShifter(48000)
	if err != nil {
		t.Fatal(err)
	}
	s.SetRatio(1.26)
	in := testutil.DeterministicSine(330, 48000, 0.4, 2048)

	a := append([]float64(nil), in...)
	s.ProcessInPlace(a)
	s.Reset()
	b := append([]float64(nil), in...)
	s.ProcessInPlace(b)
	testutil.RequireSliceNearlyEqual(t, b, a, 0)
}
