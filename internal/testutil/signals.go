package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine of the given amplitude starting at
// phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Pluck approximates a picked guitar string: four harmonics with 1/h²
// amplitudes under an exponential decay of the given time constant.
func Pluck(freqHz, sampleRate, amplitude, decaySec float64, length int) []float64 {
	out := make([]float64, length)
	norm := 1 / (1 + 1.0/4 + 1.0/9 + 1.0/16)
	for i := range out {
		t := float64(i) / sampleRate
		var x float64
		for h := 1; h <= 4; h++ {
			x += math.Sin(2*math.Pi*freqHz*float64(h)*t) / float64(h*h)
		}
		out[i] = amplitude * norm * math.Exp(-t/decaySec) * x
	}
	return out
}

// Impulse returns a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n samples of 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
