package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "nan", in: math.NaN(), want: 0},
		{name: "+inf", in: math.Inf(1), want: 4},
		{name: "-inf", in: math.Inf(-1), want: -4},
		{name: "over", in: 9, want: 4},
		{name: "denormal", in: 1e-310, want: 0},
		{name: "normal", in: -0.25, want: -0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in, 4); got != tt.want {
				t.Fatalf("Sanitize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeBlockCountsNonFinite(t *testing.T) {
	buf := []float64{0.5, math.NaN(), math.Inf(1), 1e-40, -0.5}
	bad := SanitizeBlock(buf, DefaultSampleLimit)
	if bad != 2 {
		t.Fatalf("bad = %d, want 2", bad)
	}
	want := []float64{0.5, 0, DefaultSampleLimit, 0, -0.5}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestSmoothingCoefficient(t *testing.T) {
	if got := SmoothingCoefficient(0, 48000); got != 1 {
		t.Fatalf("zero time coefficient = %v, want 1", got)
	}
	c := SmoothingCoefficient(10, 48000)
	if c <= 0 || c >= 1 {
		t.Fatalf("coefficient out of (0,1): %v", c)
	}
	// After one time constant a step has covered 1-1/e.
	y := 0.0
	for range 480 {
		y += (1 - y) * c
	}
	if math.Abs(y-(1-1/math.E)) > 1e-3 {
		t.Fatalf("after tau: %v, want %v", y, 1-1/math.E)
	}
}
