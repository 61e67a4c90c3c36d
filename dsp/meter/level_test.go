package meter

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pedal/internal/testutil"
)

func TestLevelPeakAndRMS(t *testing.T) {
	l := NewLevel(48000)
	sine := testutil.DeterministicSine(1000, 48000, 0.5, 3*48000)
	for i := 0; i < len(sine); i += 128 {
		l.Process(sine[i : i+128])
	}
	if math.Abs(l.Peak()-0.5) > 1e-3 {
		t.Fatalf("Peak() = %v, want 0.5", l.Peak())
	}
	if want := 0.5 / math.Sqrt2; math.Abs(l.RMS()-want) > 5e-3 {
		t.Fatalf("RMS() = %v, want %v", l.RMS(), want)
	}
	if math.Abs(l.PeakDB()-(-6.02)) > 0.05 {
		t.Fatalf("PeakDB() = %v", l.PeakDB())
	}
}

func TestLevelReleaseAndHold(t *testing.T) {
	l := NewLevel(48000)
	l.Process([]float64{1})

	silence := make([]float64, 4800) // 100 ms
	l.Process(silence)
	if want := math.Pow(10, -2.0/20); math.Abs(l.Peak()-want) > 1e-3 {
		t.Fatalf("Peak() after 100 ms = %v, want %v", l.Peak(), want)
	}
	if l.Hold() != 1 {
		t.Fatalf("Hold() = %v, want 1 inside hold time", l.Hold())
	}

	for range 10 {
		l.Process(silence)
	}
	if l.Hold() >= 1 {
		t.Fatalf("Hold() = %v, want release after 1 s", l.Hold())
	}

	l.Reset()
	if l.Peak() != 0 || l.Hold() != 0 || l.RMS() != 0 {
		t.Fatal("Reset did not clear readings")
	}
}
