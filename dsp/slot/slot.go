package slot

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/fader"
)

const (
	// DefaultCrossfadeMs is the mode switch crossfade duration.
	DefaultCrossfadeMs = 20.0

	// MaxVoices bounds how many modes render during one transition.
	MaxVoices = 3

	noMode = -1
)

var (
	ErrNoModes     = errors.New("slot: no modes")
	ErrUnknownMode = errors.New("slot: unknown mode")
)

// State is the container state machine position.
type State int

const (
	Steady State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "steady"
}

// voice is a mode heard with a frozen weight during a transition.
type voice struct {
	mode   int
	weight float64
}

// Slot owns a fixed set of modes and switches between them. All methods
// other than New, Prepare and the read-only accessors belong to the audio
// context.
type Slot struct {
	modes       []effects.Effect
	crossfadeMs float64
	fadeLen     int

	sampleRate float64
	blockSize  int
	prepared   bool

	active  int
	to      int
	pending int

	// During a transition the heard signal is
	//   sum_i voices[i].weight*(1-w)*y_i + (toWeight*(1-w) + w)*y_to
	// where w runs from 0 to 1 on ramp and the weights sum to 1.
	voices   [MaxVoices - 1]voice
	nVoices  int
	toWeight float64
	ramp     *fader.Ramp
	f0       float64

	w       []float64
	gain    []float64
	scratch []float64
	bufs    [MaxVoices][]float64
}

// Option configures a Slot.
type Option func(*Slot)

// WithCrossfade sets the crossfade duration in milliseconds. Non-positive
// values switch instantly.
func WithCrossfade(ms float64) Option {
	return func(s *Slot) {
		if core.IsFinite(ms) {
			s.crossfadeMs = math.Max(0, ms)
		}
	}
}

// New creates a slot over modes. Mode 0 is active.
func New(modes []effects.Effect, opts ...Option) (*Slot, error) {
	if len(modes) == 0 {
		return nil, ErrNoModes
	}
	for i, m := range modes {
		if m == nil {
			return nil, fmt.Errorf("slot: mode %d is nil", i)
		}
	}
	s := &Slot{
		modes:       append([]effects.Effect(nil), modes...),
		crossfadeMs: DefaultCrossfadeMs,
		to:          noMode,
		pending:     noMode,
		ramp:        fader.NewRamp(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Prepare prepares every mode and allocates the mixing buffers.
func (s *Slot) Prepare(sampleRate float64, blockSize int) error {
	for i, m := range s.modes {
		if err := m.Prepare(sampleRate, blockSize); err != nil {
			return fmt.Errorf("slot: mode %d (%s): %w", i, m.Kind(), err)
		}
	}
	s.sampleRate = sampleRate
	s.blockSize = blockSize
	s.fadeLen = fader.Samples(s.crossfadeMs, sampleRate)
	s.w = make([]float64, blockSize)
	s.gain = make([]float64, blockSize)
	s.scratch = make([]float64, blockSize)
	for i := range s.bufs {
		s.bufs[i] = make([]float64, blockSize)
	}
	s.finish()
	s.prepared = true
	return nil
}

// Len returns the number of modes.
func (s *Slot) Len() int { return len(s.modes) }

// Mode returns mode i.
func (s *Slot) Mode(i int) effects.Effect { return s.modes[i] }

// Modes returns every mode in index order. The slice must not be modified.
func (s *Slot) Modes() []effects.Effect { return s.modes }

// Index returns the first mode of the given kind.
func (s *Slot) Index(kind effects.Kind) (int, bool) {
	for i, m := range s.modes {
		if m.Kind() == kind {
			return i, true
		}
	}
	return 0, false
}

// Active returns the mode being switched to, or the steady mode.
func (s *Slot) Active() int {
	if s.to != noMode {
		return s.to
	}
	return s.active
}

// State reports whether a crossfade is running.
func (s *Slot) State() State {
	if s.to != noMode {
		return Transitioning
	}
	return Steady
}

// Progress returns the global fader position in [0, 1]. It only moves
// forward during a transition and is 1 when steady.
func (s *Slot) Progress() float64 {
	if s.to == noMode {
		return 1
	}
	return s.f0 + (1-s.f0)*s.ramp.Value()
}

// Pending returns the mode queued behind a full transition.
func (s *Slot) Pending() (int, bool) {
	return s.pending, s.pending != noMode
}

// CrossfadeSamples returns the full crossfade length.
func (s *Slot) CrossfadeSamples() int { return s.fadeLen }

// Select requests a switch to mode. Selecting the mode already heard while
// steady does nothing. Mid-transition, the audible mix is frozen at its
// current ratio and fades toward mode from there.
func (s *Slot) Select(mode int) error {
	if mode < 0 || mode >= len(s.modes) {
		return fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
	if s.to == noMode {
		if mode == s.active {
			s.pending = noMode
			return nil
		}
		s.begin(mode)
		return nil
	}
	if mode == s.to {
		s.pending = noMode
		return nil
	}

	// Freeze the current blend.
	w := s.ramp.Value()
	var next [MaxVoices]voice
	n := 0
	for _, v := range s.voices[:s.nVoices] {
		if g := v.weight * (1 - w); g > 0 {
			next[n] = voice{mode: v.mode, weight: g}
			n++
		}
	}
	if g := s.toWeight*(1-w) + w; g > 0 {
		next[n] = voice{mode: s.to, weight: g}
		n++
	}

	toWeight := 0.0
	others := n
	for i := range n {
		if next[i].mode == mode {
			toWeight = next[i].weight
			others--
		}
	}
	if others+1 > MaxVoices {
		s.pending = mode
		return nil
	}

	f := s.Progress()
	s.nVoices = 0
	for _, v := range next[:n] {
		if v.mode != mode {
			s.voices[s.nVoices] = v
			s.nVoices++
		}
	}
	if toWeight == 0 {
		s.modes[mode].Reset()
	}
	s.toWeight = toWeight
	s.to = mode
	s.f0 = f
	s.pending = noMode
	total := max(int(math.Ceil((1-f)*float64(s.fadeLen))), int(math.Ceil(float64(s.fadeLen)/4)))
	s.ramp.Jump(0)
	s.ramp.Start(1, total)
	if s.ramp.Done() {
		s.finish()
	}
	return nil
}

// begin starts a transition from steady.
func (s *Slot) begin(mode int) {
	s.modes[mode].Reset()
	s.voices[0] = voice{mode: s.active, weight: 1}
	s.nVoices = 1
	s.toWeight = 0
	s.to = mode
	s.f0 = 0
	s.pending = noMode
	s.ramp.Jump(0)
	s.ramp.Start(1, s.fadeLen)
	if s.ramp.Done() {
		s.finish()
	}
}

// Force makes mode active at once, cancelling any transition. Used when a
// preset load is masked by a mute.
func (s *Slot) Force(mode int) error {
	if mode < 0 || mode >= len(s.modes) {
		return fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
	if !s.audible(mode) {
		s.modes[mode].Reset()
	}
	s.finish()
	s.active = mode
	s.pending = noMode
	return nil
}

func (s *Slot) audible(mode int) bool {
	if s.to == noMode {
		return mode == s.active
	}
	return mode == s.to || contains(s.voices[:s.nVoices], mode)
}

// finish lands on the destination mode.
func (s *Slot) finish() {
	if s.to != noMode {
		s.active = s.to
	}
	s.to = noMode
	s.nVoices = 0
	s.toWeight = 0
	s.f0 = 0
	s.ramp.Jump(1)
}

// BeginBlock steps parameters of every mode, heard or not, so ramps keep
// running in the background.
func (s *Slot) BeginBlock() {
	for _, m := range s.modes {
		m.BeginBlock()
	}
}

// SetBypass bypasses every mode.
func (s *Slot) SetBypass(bypassed bool) {
	for _, m := range s.modes {
		m.SetBypass(bypassed)
	}
}

// Bypassed reports the bypass state of the active mode.
func (s *Slot) Bypassed() bool { return s.modes[s.Active()].Bypassed() }

// ProcessBlock renders in into out. in and out may alias.
func (s *Slot) ProcessBlock(in, out []float64) {
	n := min(len(in), len(out))
	if !s.prepared {
		copy(out[:n], in[:n])
		return
	}
	for off := 0; off < n; off += s.blockSize {
		end := min(off+s.blockSize, n)
		s.render(in[off:end], out[off:end])
	}
}

func (s *Slot) render(in, out []float64) {
	if s.to == noMode {
		s.modes[s.active].ProcessBlock(in, out)
		return
	}

	n := len(in)
	w := s.w[:n]
	s.ramp.Fill(w)

	// Render every distinct mode from in before out is touched.
	for i, v := range s.voices[:s.nVoices] {
		s.modes[v.mode].ProcessBlock(in, s.bufs[i][:n])
	}
	toBuf := s.bufs[s.nVoices][:n]
	s.modes[s.to].ProcessBlock(in, toBuf)

	if s.nVoices == 1 && s.toWeight == 0 {
		// One outgoing voice at full weight: a plain crossfade.
		fader.Mix(out[:n], s.bufs[0][:n], toBuf, w, s.scratch[:n])
	} else {
		g := s.gain[:n]
		for j, wj := range w {
			g[j] = s.toWeight*(1-wj) + wj
		}
		copy(out[:n], toBuf)
		fader.Apply(out[:n], g)
		for i, v := range s.voices[:s.nVoices] {
			for j, wj := range w {
				g[j] = v.weight * (1 - wj)
			}
			fader.Accumulate(out[:n], s.bufs[i][:n], g, s.scratch[:n])
		}
	}

	if s.ramp.Done() {
		s.finish()
		if s.pending != noMode {
			next := s.pending
			s.pending = noMode
			if next != s.active {
				s.begin(next)
			}
		}
	}
}

func contains(vs []voice, mode int) bool {
	for _, v := range vs {
		if v.mode == mode {
			return true
		}
	}
	return false
}
