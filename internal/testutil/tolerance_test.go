package testutil

import (
	"math"
	"testing"
)

func TestMaxStep(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		data []float64
		want float64
	}{
		{"empty", 0.3, nil, 0},
		{"from prev", 1, []float64{0.5, 0.4}, 0.5},
		{"inside", 0, []float64{0.1, 0.2, -0.5, -0.4}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxStep(tt.prev, tt.data); math.Abs(got-tt.want) > 1e-15 {
				t.Fatalf("MaxStep = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequireBoundedAccepts(t *testing.T) {
	RequireBounded(t, []float64{-1, 0, 1}, 1)
	RequireFinite(t, []float64{-1e300, 0, 1e300})
}
