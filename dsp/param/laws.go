package param

import "math"

// RampLaw selects how a parameter approaches its target.
type RampLaw int

const (
	// Linear moves a fixed increment per block.
	Linear RampLaw = iota
	// Exponential follows a one-pole approach and snaps at the end of the
	// ramp time.
	Exponential
)

func (l RampLaw) String() string {
	if l == Exponential {
		return "exponential"
	}
	return "linear"
}

// expTimeConstants is the number of one-pole time constants that fit into
// one ramp time. e^-5 leaves under 1% of the step before the final snap.
const expTimeConstants = 5.0

// Laws maps each category to its ramp law and default ramp time.
type Laws struct {
	Law    [numCategories]RampLaw
	RampMs [numCategories]float64
}

// DefaultLaws ramps gain and frequency exponentially and everything else
// linearly. Stepped controls change on the next block.
func DefaultLaws() Laws {
	var l Laws
	l.Law[Gain] = Exponential
	l.Law[Frequency] = Exponential

	l.RampMs[Generic] = 50
	l.RampMs[Gain] = 30
	l.RampMs[Frequency] = 50
	l.RampMs[Time] = 80
	l.RampMs[Mix] = 30
	l.RampMs[Stepped] = 0
	return l
}

// For returns the law and ramp time used for s.
func (l Laws) For(s Spec) (RampLaw, float64) {
	c := s.Category
	if c < 0 || c >= numCategories {
		c = Generic
	}
	ms := l.RampMs[c]
	if s.RampMs > 0 {
		ms = s.RampMs
	}
	return l.Law[c], ms
}

// RampBlocks converts a ramp time to a whole number of blocks, rounding up.
// The result is at least one so every edit lands on a block boundary.
func RampBlocks(rampMs, sampleRate float64, blockSize int) int {
	if !(rampMs > 0) || !(sampleRate > 0) || blockSize <= 0 {
		return 1
	}
	periodMs := float64(blockSize) / sampleRate * 1000
	n := int(math.Ceil(rampMs/periodMs - 1e-9))
	return max(n, 1)
}
