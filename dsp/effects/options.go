package effects

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/param"
)

const defaultBypassFadeMs = 5.0

// Option configures a Unit at construction.
type Option func(*unitConfig)

type unitConfig struct {
	laws         param.Laws
	bypassFadeMs float64
	sampleLimit  float64
}

func defaultUnitConfig() unitConfig {
	return unitConfig{
		laws:         param.DefaultLaws(),
		bypassFadeMs: defaultBypassFadeMs,
		sampleLimit:  core.DefaultSampleLimit,
	}
}

// WithLaws sets the ramp law table used by the effect's parameters.
func WithLaws(l param.Laws) Option {
	return func(c *unitConfig) { c.laws = l }
}

// WithBypassFade sets the bypass fade time in milliseconds. Negative
// values are ignored.
func WithBypassFade(ms float64) Option {
	return func(c *unitConfig) {
		if ms >= 0 {
			c.bypassFadeMs = ms
		}
	}
}

// WithSampleLimit sets the absolute sample value the sanitizer clamps to.
func WithSampleLimit(limit float64) Option {
	return func(c *unitConfig) {
		if limit > 0 {
			c.sampleLimit = limit
		}
	}
}
