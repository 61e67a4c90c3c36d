package osc

import (
	"math"
	"testing"
)

func TestSineTableAccuracy(t *testing.T) {
	tab := NewSineTable(11)
	for i := range 1000 {
		p := float64(i) / 997
		want := math.Sin(2 * math.Pi * p)
		if got := tab.At(p); math.Abs(got-want) > 1e-5 {
			t.Fatalf("At(%v) = %v, want %v", p, got, want)
		}
	}
	if got := tab.At(-0.25); math.Abs(got+1) > 1e-9 {
		t.Fatalf("At(-0.25) = %v, want -1", got)
	}
}

func TestSineTableBadBits(t *testing.T) {
	if got := NewSineTable(40).Len(); got != 1<<defaultTableBits {
		t.Fatalf("Len() = %d", got)
	}
}

func TestLFOShapes(t *testing.T) {
	tests := []struct {
		shape Shape
		phase float64
		want  float64
	}{
		{Sine, 0.25, 1},
		{Triangle, 0, -1},
		{Triangle, 0.5, 1},
		{Square, 0.1, 1},
		{Square, 0.6, -1},
		{SawUp, 0.75, 0.5},
		{SawDown, 0.75, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			l := NewLFO(48000, 1)
			l.SetShape(tt.shape)
			l.SetPhase(tt.phase)
			if got := l.Value(); math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLFOAdvanceMatchesNext(t *testing.T) {
	a := NewLFO(48000, 3.3)
	b := NewLFO(48000, 3.3)
	for range 1000 {
		a.Next()
	}
	b.Advance(1000)
	if math.Abs(a.Phase()-b.Phase()) > 1e-9 {
		t.Fatalf("phase mismatch: %v vs %v", a.Phase(), b.Phase())
	}
}

func TestLFOBounded(t *testing.T) {
	for s := Sine; s <= SampleHold; s++ {
		l := NewLFO(48000, 7)
		l.SetShape(s)
		for range 48000 {
			if v := l.Next(); v < -1 || v > 1 {
				t.Fatalf("%v: value %v out of range", s, v)
			}
		}
	}
}

func TestLFOSampleHoldDeterministic(t *testing.T) {
	run := func() []float64 {
		l := NewLFO(1000, 10)
		l.SetShape(SampleHold)
		l.Reset()
		out := make([]float64, 500)
		l.Fill(out)
		return out
	}
	a, b := run(), run()
	changes := 0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
		if i > 0 && a[i] != a[i-1] {
			changes++
		}
	}
	// 10 Hz at 1 kHz for 0.5 s gives a new value every 100 samples.
	if changes < 3 || changes > 5 {
		t.Fatalf("changes = %d, want about 4", changes)
	}
}

func TestLFOResetRestoresStartPhase(t *testing.T) {
	l := NewLFO(48000, 2)
	l.SetPhase(0.3)
	l.Advance(777)
	l.Reset()
	if l.Phase() != 0.3 {
		t.Fatalf("Phase() = %v, want 0.3", l.Phase())
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("saw-down")
	if err != nil || s != SawDown {
		t.Fatalf("ParseShape = %v, %v", s, err)
	}
	if _, err := ParseShape("wobble"); err == nil {
		t.Fatal("expected error for unknown shape")
	}
}
