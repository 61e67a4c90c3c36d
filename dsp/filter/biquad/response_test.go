package biquad

import (
	"math"
	"testing"
)

// magnitudeDB evaluates 10*log10(|H(f)|^2) in closed form.
func magnitudeDB(c Coefficients, freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return 10 * math.Log10(num/den)
}

func TestStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"passthrough", passthrough(), true},
		{"damped", Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}, true},
		{"pole on circle", Coefficients{B0: 1, A2: 1}, false},
		{"pole outside", Coefficients{B0: 1, A1: -2.1, A2: 1.1}, false},
		{"real pole past one", Coefficients{B0: 1, A1: 1.5, A2: 0.4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Stable(); got != tt.want {
				t.Fatalf("Stable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetCoefficientsRejectsUnusable(t *testing.T) {
	good := LowPass(48000, 1000, 0.707)
	s := NewSection(good)

	for _, bad := range []Coefficients{
		{B0: 1, A1: -2.1, A2: 1.1},
		{B0: math.NaN()},
		{B0: 1, A1: math.Inf(1)},
	} {
		if s.SetCoefficients(bad) {
			t.Fatalf("accepted %+v", bad)
		}
		if s.Coefficients != good {
			t.Fatalf("coefficients changed to %+v", s.Coefficients)
		}
	}

	next := LowPass(48000, 2000, 0.707)
	if !s.SetCoefficients(next) || s.Coefficients != next {
		t.Fatalf("stable update rejected")
	}

	// A rejected update leaves the section producing finite output.
	s.SetCoefficients(Coefficients{B0: 1, A1: -2.1, A2: 1.1})
	for i := range 4800 {
		if y := s.ProcessSample(1); math.IsNaN(y) || math.IsInf(y, 0) || math.Abs(y) > 2 {
			t.Fatalf("sample %d: y=%v", i, y)
		}
	}
}
