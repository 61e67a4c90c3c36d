package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want quarter-period peak", s[12])
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 64)
	b := DeterministicNoise(42, 0.5, 64)
	c := DeterministicNoise(43, 0.5, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if a[i] != c[i] {
			same = false
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("a[%d] = %v exceeds amplitude", i, a[i])
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestPluckDecays(t *testing.T) {
	p := Pluck(110, 48000, 0.8, 0.25, 48000)
	early := peak(p[:4800])
	late := peak(p[43200:])
	if early > 0.8 || early < 0.3 {
		t.Fatalf("early peak %v, want in (0.3, 0.8]", early)
	}
	if late > early/10 {
		t.Fatalf("late peak %v did not decay from %v", late, early)
	}
}

func peak(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

func TestSimpleSignals(t *testing.T) {
	tests := []struct {
		name string
		got  []float64
		want []float64
	}{
		{"impulse", Impulse(4, 2), []float64{0, 0, 1, 0}},
		{"impulse out of range", Impulse(3, 10), []float64{0, 0, 0}},
		{"dc", DC(0.5, 3), []float64{0.5, 0.5, 0.5}},
		{"ones", Ones(2), []float64{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RequireSliceNearlyEqual(t, tt.got, tt.want, 0)
		})
	}
}
