package fader

import (
	"math"
	"testing"
)

func TestRampReachesTargetExactly(t *testing.T) {
	r := NewRamp(0)
	r.Start(1, 960)

	buf := make([]float64, 128)
	produced := 0
	for !r.Done() {
		r.Fill(buf)
		produced += len(buf)
	}
	if r.Value() != 1 {
		t.Fatalf("Value() = %v, want 1", r.Value())
	}
	if produced != 1024 {
		t.Fatalf("produced %d samples", produced)
	}
	// Tail of the last block holds the target.
	for i := 960 - 896; i < len(buf); i++ {
		if buf[i] != 1 {
			t.Fatalf("buf[%d] = %v after completion", i, buf[i])
		}
	}
}

func TestRampMidpoint(t *testing.T) {
	r := NewRamp(0)
	r.Start(1, 960)
	var v float64
	for range 480 {
		v = r.Next()
	}
	if v != 0.5 {
		t.Fatalf("gain after 480 samples = %v, want 0.5", v)
	}
}

func TestRampMonotonicAndBounded(t *testing.T) {
	r := NewRamp(0.8)
	r.Start(0.1, 333)
	prev := r.Value()
	for !r.Done() {
		v := r.Next()
		if v > prev || v < 0.1 {
			t.Fatalf("non-monotonic step %v -> %v", prev, v)
		}
		prev = v
	}
	if prev != 0.1 {
		t.Fatalf("final = %v", prev)
	}
}

func TestRampRestartFromCurrentValue(t *testing.T) {
	r := NewRamp(0)
	r.Start(1, 100)
	for range 40 {
		r.Next()
	}
	mid := r.Value()
	r.Start(0, 100)
	if r.Value() != mid {
		t.Fatalf("restart moved value: %v -> %v", mid, r.Value())
	}
	if v := r.Next(); v >= mid {
		t.Fatalf("expected descent, got %v from %v", v, mid)
	}
}

func TestRampJumpAndClamp(t *testing.T) {
	r := NewRamp(2)
	if r.Value() != 1 {
		t.Fatalf("NewRamp(2).Value() = %v", r.Value())
	}
	r.Start(math.NaN(), 10)
	if r.Target() != 0 || r.Remaining() != 10 {
		t.Fatalf("NaN target should ramp to 0, got target %v", r.Target())
	}
	r.Jump(0.25)
	if r.Value() != 0.25 || !r.Done() {
		t.Fatalf("Jump: value %v done %v", r.Value(), r.Done())
	}
}

func TestSamples(t *testing.T) {
	tests := []struct {
		ms, sr float64
		want   int
	}{
		{20, 48000, 960},
		{5, 44100, 221},
		{0, 48000, 0},
		{-3, 48000, 0},
	}
	for _, tt := range tests {
		if got := Samples(tt.ms, tt.sr); got != tt.want {
			t.Fatalf("Samples(%v, %v) = %d, want %d", tt.ms, tt.sr, got, tt.want)
		}
	}
}
