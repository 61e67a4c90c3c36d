package core

import "fmt"

// ProcessorConfig defines the fixed per-session processing settings that the
// audio transport supplies once before rendering starts.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the pedal's nominal codec settings.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  128,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports whether the configuration can drive a real-time session.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || !IsFinite(c.SampleRate) {
		return fmt.Errorf("sample rate must be > 0 and finite: %f", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", c.BlockSize)
	}
	return nil
}

// BlockPeriodMs returns the playback duration of one block in milliseconds.
func (c ProcessorConfig) BlockPeriodMs() float64 {
	return 1000 * float64(c.BlockSize) / c.SampleRate
}

// MsToSamples converts a duration in milliseconds to a whole number of
// samples, rounding to nearest.
func (c ProcessorConfig) MsToSamples(ms float64) int {
	if ms <= 0 {
		return 0
	}
	return int(ms*c.SampleRate/1000 + 0.5)
}
