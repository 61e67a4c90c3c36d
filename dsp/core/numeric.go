package core

import "math"

const (
	defaultEpsilon = 1e-12

	// denormalThreshold is the magnitude below which state values are
	// flushed to zero.
	denormalThreshold = 1e-30

	// DefaultSampleLimit bounds sanitized audio samples (+24 dBFS).
	DefaultSampleLimit = 16.0
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}
	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}
	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}
	return x
}

// Sanitize maps x to a safe sample value: NaN becomes 0, infinities and
// overs are clamped to ±limit, and denormals are flushed.
func Sanitize(x, limit float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if x > limit {
		return limit
	}
	if x < -limit {
		return -limit
	}
	return FlushDenormals(x)
}

// SanitizeBlock applies Sanitize to every sample of buf in place and returns
// the number of non-finite samples it replaced.
func SanitizeBlock(buf []float64, limit float64) int {
	bad := 0
	for i, x := range buf {
		if !IsFinite(x) {
			bad++
		}
		buf[i] = Sanitize(x, limit)
	}
	return bad
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}
	if linear == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// SmoothingCoefficient returns the one-pole coefficient reaching 1-1/e of a
// step after timeMs at the given update rate in Hz. A non-positive time
// yields 1 (no smoothing).
func SmoothingCoefficient(timeMs, rateHz float64) float64 {
	if timeMs <= 0 || rateHz <= 0 {
		return 1
	}
	return Clamp(1-math.Exp(-1/(timeMs/1000*rateHz)), 0, 1)
}
