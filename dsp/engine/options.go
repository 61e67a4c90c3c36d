package engine

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/slot"
	"github.com/cwbudde/algo-pedal/preset"
	"github.com/sirupsen/logrus"
)

const (
	DefaultQueueCapacity = 8
	DefaultPresetFadeMs  = 10.0
	DefaultEventBuffer   = 64
)

// Routing selects how slots are connected.
type Routing int

const (
	// Series feeds each slot's output into the next.
	Series Routing = iota
	// Parallel feeds every slot the input and averages the outputs.
	Parallel
)

func (r Routing) String() string {
	if r == Parallel {
		return "parallel"
	}
	return "series"
}

// ParseRouting parses "series" or "parallel".
func ParseRouting(s string) (Routing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "series":
		return Series, nil
	case "parallel":
		return Parallel, nil
	}
	return Series, fmt.Errorf("engine: unknown routing %q", s)
}

type config struct {
	logger        logrus.FieldLogger
	store         preset.Store
	registry      *effects.Registry
	queueCapacity int
	crossfadeMs   float64
	presetFadeMs  float64
	routing       Routing
	eventBuffer   int
	effectOpts    []effects.Option
}

func defaultConfig() config {
	return config{
		logger:        logrus.StandardLogger(),
		registry:      effects.DefaultRegistry(),
		queueCapacity: DefaultQueueCapacity,
		crossfadeMs:   slot.DefaultCrossfadeMs,
		presetFadeMs:  DefaultPresetFadeMs,
		eventBuffer:   DefaultEventBuffer,
	}
}

// Option configures an Engine.
type Option func(*config)

// WithLogger sets the control-side logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStore sets the preset store.
func WithStore(s preset.Store) Option {
	return func(c *config) { c.store = s }
}

// WithRegistry sets the registry AddSlot builds effects from.
func WithRegistry(r *effects.Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithQueueCapacity sets the intent queue size.
func WithQueueCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueCapacity = n
		}
	}
}

// WithCrossfade sets the mode switch crossfade time in milliseconds.
func WithCrossfade(ms float64) Option {
	return func(c *config) {
		if ms >= 0 {
			c.crossfadeMs = ms
		}
	}
}

// WithPresetFade sets the mute fade around a preset load in
// milliseconds. Zero applies presets without muting.
func WithPresetFade(ms float64) Option {
	return func(c *config) {
		if ms >= 0 {
			c.presetFadeMs = ms
		}
	}
}

// WithRouting sets how slots are connected.
func WithRouting(r Routing) Option {
	return func(c *config) { c.routing = r }
}

// WithEventBuffer sets the Events channel buffer size.
func WithEventBuffer(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.eventBuffer = n
		}
	}
}

// WithEffectOptions passes options to every effect AddSlot creates.
func WithEffectOptions(opts ...effects.Option) Option {
	return func(c *config) { c.effectOpts = append(c.effectOpts, opts...) }
}
