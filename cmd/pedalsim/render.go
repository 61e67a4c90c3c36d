package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/engine"
	"github.com/cwbudde/algo-pedal/preset"
)

const pcm16Scale = 32768.0

var (
	errNotWav     = errors.New("pedalsim: not a wav file")
	errEmptyInput = errors.New("pedalsim: input has no samples")
	errBitDepth   = errors.New("pedalsim: unsupported wav bit depth")
)

// ReadWav decodes a PCM WAV file to mono float samples in [-1, 1).
// Multichannel input is averaged.
func ReadWav(path string) ([]float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("pedalsim: open input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, errNotWav
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("pedalsim: decode input: %w", err)
	}
	return toMono(buf, int(dec.BitDepth))
}

func toMono(buf *goaudio.IntBuffer, bitDepth int) ([]float64, float64, error) {
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, errEmptyInput
	}
	var full float64
	switch bitDepth {
	case 8:
		full = 128
	case 16:
		full = pcm16Scale
	case 24:
		full = 8388608
	case 32:
		full = 2147483648
	default:
		return nil, 0, fmt.Errorf("%w: %d", errBitDepth, bitDepth)
	}

	ch := buf.Format.NumChannels
	if ch < 1 {
		ch = 1
	}
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := range out {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch) / full
	}
	return out, float64(buf.Format.SampleRate), nil
}

// WriteWav encodes mono samples as 16-bit PCM.
func WriteWav(path string, samples []float64, sampleRate float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pedalsim: create output: %w", err)
	}

	enc := wav.NewEncoder(f, int(sampleRate), 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: int(sampleRate)},
		Data:           quantize16(samples),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("pedalsim: encode output: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("pedalsim: finish output: %w", err)
	}
	return f.Close()
}

func quantize16(samples []float64) []int {
	data := make([]int, len(samples))
	for i, x := range samples {
		v := math.Round(x * pcm16Scale)
		if v > pcm16Scale-1 {
			v = pcm16Scale - 1
		} else if v < -pcm16Scale {
			v = -pcm16Scale
		}
		data[i] = int(v)
	}
	return data
}

// Session owns one engine and the script that drives it.
type Session struct {
	cfg    Config
	eng    *engine.Engine
	log    logrus.FieldLogger
	script []Action
}

// NewSession builds and prepares the engine described by cfg.
func NewSession(cfg Config, log logrus.FieldLogger) (*Session, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, engine.WithLogger(log))
	if cfg.PresetDir != "" {
		store, err := preset.NewFileStore(cfg.PresetDir, cfg.PresetSlots)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithStore(store))
	}

	eng := engine.New(opts...)
	for _, s := range cfg.Slots {
		kinds := make([]effects.Kind, len(s.Kinds))
		for i, k := range s.Kinds {
			kinds[i] = effects.Kind(k)
		}
		if err := eng.AddSlot(s.ID, kinds...); err != nil {
			return nil, err
		}
	}
	if err := eng.Prepare(cfg.SampleRate, cfg.BlockSize); err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, eng: eng, log: log, script: cfg.Script}, nil
}

// Engine exposes the prepared engine.
func (s *Session) Engine() *engine.Engine { return s.eng }

// Run renders in block by block, issuing script actions at the first block
// boundary at or after their time. A failing action is logged and the
// render continues.
func (s *Session) Run(ctx context.Context, in []float64) []float64 {
	out := make([]float64, len(in))
	bs := s.cfg.BlockSize
	next := 0
	for start := 0; start < len(in); start += bs {
		end := min(start+bs, len(in))
		for next < len(s.script) && s.script[next].AtSample(s.cfg.SampleRate) <= start {
			s.apply(ctx, s.script[next])
			next++
		}
		s.eng.RenderBlock(in[start:end], out[start:end])
		s.eng.Poll()
		s.drainEvents()
	}
	return out
}

func (s *Session) apply(ctx context.Context, a Action) {
	var err error
	switch a.Do {
	case "set":
		err = s.eng.SetParameter(a.Address, a.Value)
	case "select":
		err = s.eng.SelectKind(a.Slot, effects.Kind(a.Kind))
	case "bypass":
		err = s.eng.SetBypass(a.Slot, a.Bypassed)
	case "load":
		err = s.eng.LoadPreset(ctx, a.Preset)
	case "save":
		err = s.eng.SavePreset(ctx, a.Preset, a.Name)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "apply",
			"at_ms":    a.AtMs,
			"action":   a.Do,
			"error":    err.Error(),
		}).Warn("Script action failed")
	}
}

func (s *Session) drainEvents() {
	for {
		select {
		case ev := <-s.eng.Events():
			fields := logrus.Fields{"event": ev.Type.String()}
			switch ev.Type {
			case engine.ParameterChanged:
				fields["address"] = ev.Address
				fields["value"] = ev.Value
			case engine.ModeChanged:
				fields["slot"] = ev.Slot
				fields["kind"] = string(ev.Kind)
			case engine.PresetLoaded, engine.PresetSaved:
				fields["preset"] = ev.Preset
				fields["name"] = ev.Name
			}
			s.log.WithFields(fields).Debug("Engine event")
		default:
			return
		}
	}
}
