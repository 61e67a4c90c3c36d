package meter

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/internal/testutil"
)

func feed(d *PitchDetector, sig []float64) {
	for i := 0; i+128 <= len(sig); i += 128 {
		d.Write(sig[i : i+128])
	}
}

func TestPitchDetectorSine(t *testing.T) {
	for _, freq := range []float64{82.41, 110, 196, 440, 987.77} {
		d, err := NewPitchDetector(48000, 4096)
		if err != nil {
			t.Fatal(err)
		}
		feed(d, testutil.DeterministicSine(freq, 48000, 0.5, 16384))
		if got := d.Frequency(); math.Abs(got-freq) > freq*0.005+0.5 {
			t.Fatalf("freq %v: detected %v", freq, got)
		}
	}
}

func TestPitchDetectorPrefersFundamental(t *testing.T) {
	d, err := NewPitchDetector(48000, 4096)
	if err != nil {
		t.Fatal(err)
	}
	// Fundamental weaker than the second harmonic.
	f0 := testutil.DeterministicSine(110, 48000, 0.35, 16384)
	h2 := testutil.DeterministicSine(220, 48000, 0.5, 16384)
	for i := range f0 {
		f0[i] += h2[i]
	}
	feed(d, f0)
	if got := d.Frequency(); math.Abs(got-110) > 1.5 {
		t.Fatalf("detected %v, want 110", got)
	}
}

func TestPitchDetectorSilence(t *testing.T) {
	d, err := NewPitchDetector(48000, 2048)
	if err != nil {
		t.Fatal(err)
	}
	feed(d, make([]float64, 8192))
	if d.Frequency() != 0 {
		t.Fatalf("Frequency() = %v on silence", d.Frequency())
	}
}

func TestPitchDetectorValidation(t *testing.T) {
	if _, err := NewPitchDetector(48000, 1000); !errors.Is(err, ErrFrameSize) {
		t.Fatalf("err = %v, want ErrFrameSize", err)
	}
	d, err := NewPitchDetector(48000, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetRange(500, 100); err == nil {
		t.Fatal("expected range error")
	}
}

func TestPitchDetectorReset(t *testing.T) {
	d, err := NewPitchDetector(48000, 2048)
	if err != nil {
		t.Fatal(err)
	}
	feed(d, testutil.DeterministicSine(440, 48000, 0.5, 8192))
	if d.Frequency() == 0 {
		t.Fatal("expected a detection before reset")
	}
	d.Reset()
	if d.Frequency() != 0 || d.Confidence() != 0 {
		t.Fatal("Reset did not clear estimate")
	}
}
