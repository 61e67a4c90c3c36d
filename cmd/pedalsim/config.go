package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/engine"
	"github.com/cwbudde/algo-pedal/dsp/slot"
	"gopkg.in/yaml.v3"
)

// Config describes one offline pedal session.
type Config struct {
	SampleRate   float64      `yaml:"sample_rate"`
	BlockSize    int          `yaml:"block_size"`
	Routing      string       `yaml:"routing"`
	CrossfadeMs  float64      `yaml:"crossfade_ms"`
	PresetFadeMs float64      `yaml:"preset_fade_ms"`
	PresetDir    string       `yaml:"preset_dir"`
	PresetSlots  int          `yaml:"preset_slots"`
	Slots        []SlotConfig `yaml:"slots"`
	Script       []Action     `yaml:"script"`
}

// SlotConfig lists the modes of one chain position.
type SlotConfig struct {
	ID    string   `yaml:"id"`
	Kinds []string `yaml:"kinds,flow"`
}

// Action is a control request issued once playback reaches AtMs.
//
// Exactly one of the request fields selects the action:
//
//	set:    address + value
//	select: slot + kind
//	bypass: slot + bypassed
//	load:   preset
//	save:   preset (+ name)
type Action struct {
	AtMs     float64 `yaml:"at_ms"`
	Do       string  `yaml:"do"`
	Address  string  `yaml:"address,omitempty"`
	Value    float64 `yaml:"value,omitempty"`
	Slot     string  `yaml:"slot,omitempty"`
	Kind     string  `yaml:"kind,omitempty"`
	Bypassed bool    `yaml:"bypassed,omitempty"`
	Preset   int     `yaml:"preset,omitempty"`
	Name     string  `yaml:"name,omitempty"`
}

var (
	errNoSlots      = errors.New("pedalsim: config has no slots")
	errBadAction    = errors.New("pedalsim: invalid script action")
	errNoPresetDir  = errors.New("pedalsim: preset action without preset_dir")
	errNegativeTime = errors.New("pedalsim: negative action time")
)

func defaultConfig() Config {
	return Config{
		SampleRate:   48000,
		BlockSize:    128,
		Routing:      engine.Series.String(),
		CrossfadeMs:  slot.DefaultCrossfadeMs,
		PresetFadeMs: engine.DefaultPresetFadeMs,
		PresetSlots:  16,
	}
}

// LoadConfig reads a YAML session file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pedalsim: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML session. Script actions are
// returned sorted by time; actions sharing a time keep file order.
func ParseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("pedalsim: parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	sort.SliceStable(cfg.Script, func(i, j int) bool {
		return cfg.Script[i].AtMs < cfg.Script[j].AtMs
	})
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := engine.ParseRouting(c.Routing); err != nil {
		return err
	}
	if len(c.Slots) == 0 {
		return errNoSlots
	}
	for _, s := range c.Slots {
		for _, k := range s.Kinds {
			if !knownKind(effects.Kind(k)) {
				return fmt.Errorf("%w: slot %q: %q", effects.ErrUnknownKind, s.ID, k)
			}
		}
	}
	for i, a := range c.Script {
		if a.AtMs < 0 {
			return fmt.Errorf("%w: action %d", errNegativeTime, i)
		}
		switch a.Do {
		case "set":
			if a.Address == "" {
				return fmt.Errorf("%w: action %d: set needs an address", errBadAction, i)
			}
		case "select":
			if a.Slot == "" || a.Kind == "" {
				return fmt.Errorf("%w: action %d: select needs slot and kind", errBadAction, i)
			}
		case "bypass":
			if a.Slot == "" {
				return fmt.Errorf("%w: action %d: bypass needs a slot", errBadAction, i)
			}
		case "load", "save":
			if c.PresetDir == "" {
				return fmt.Errorf("%w: action %d", errNoPresetDir, i)
			}
		default:
			return fmt.Errorf("%w: action %d: unknown verb %q", errBadAction, i, a.Do)
		}
	}
	return nil
}

func knownKind(k effects.Kind) bool {
	for _, known := range effects.Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Options converts the session into engine options.
func (c Config) Options() ([]engine.Option, error) {
	routing, err := engine.ParseRouting(c.Routing)
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithRouting(routing),
		engine.WithCrossfade(c.CrossfadeMs),
		engine.WithPresetFade(c.PresetFadeMs),
	}, nil
}

// AtSample converts the action time to a sample index.
func (a Action) AtSample(sampleRate float64) int {
	return int(a.AtMs*sampleRate/1000 + 0.5)
}
