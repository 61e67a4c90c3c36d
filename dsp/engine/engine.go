package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/fader"
	"github.com/cwbudde/algo-pedal/dsp/meter"
	"github.com/cwbudde/algo-pedal/dsp/param"
	"github.com/cwbudde/algo-pedal/dsp/slot"
	"github.com/cwbudde/algo-pedal/internal/ring"
	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull        = errors.New("engine: request queue full, retry later")
	ErrUnknownParameter = errors.New("engine: unknown parameter")
	ErrUnknownSlot      = errors.New("engine: unknown slot")
	ErrUnknownMode      = errors.New("engine: unknown mode")
	ErrNotPrepared      = errors.New("engine: not prepared")
	ErrPrepared         = errors.New("engine: slots cannot change after Prepare")
	ErrNoStore          = errors.New("engine: no preset store")
	ErrInvalidSlot      = errors.New("engine: invalid slot")
)

type slotEntry struct {
	id   string
	slot *slot.Slot
}

type paramRef struct {
	address string
	slot    int
	mode    int
	effect  effects.Effect
	p       *param.Parameter
}

// Engine is the orchestrator. Construct with New, add slots, Prepare, then
// call RenderBlock from the audio callback.
type Engine struct {
	cfg config
	log logrus.FieldLogger

	slots      []*slotEntry
	slotIndex  map[string]int
	params     []paramRef
	paramIndex map[string]int

	sampleRate float64
	blockSize  int
	prepared   atomic.Bool
	everReady  bool

	pushMu  sync.Mutex
	queue   *ring.SPSC[intent]
	dropped atomic.Uint64

	audio audioState

	status *ring.Triple[*Status]

	readMu        sync.Mutex
	last          Status
	lastDropped   uint64
	lastRecovered uint64
	events        chan Event
}

// audioState is touched only by RenderBlock.
type audioState struct {
	paramValue []float64
	paramSet   []bool
	touched    []int
	modeReq    []int
	bypassReq  []int8

	preset *applyRecord
	loaded int
	mute   *fader.Ramp
	fadeN  int

	tmp   []float64
	sum   []float64
	gains []float64

	in, out   *meter.Level
	blocks    uint64
	recovered uint64
}

// New creates an engine with no slots.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	q, err := ring.NewSPSC[intent](cfg.queueCapacity)
	if err != nil {
		// Options never let the capacity drop below 1.
		panic(err)
	}
	return &Engine{
		cfg:        cfg,
		log:        cfg.logger,
		slotIndex:  make(map[string]int),
		paramIndex: make(map[string]int),
		queue:      q,
		events:     make(chan Event, cfg.eventBuffer),
	}
}

// Address builds the parameter address used by SetParameter and presets.
func Address(slotID string, kind effects.Kind, id param.ID) string {
	return slotID + "/" + string(kind) + "/" + string(id)
}

// AddSlot appends a slot holding one mode per kind. Mode indices follow
// the order of kinds.
func (e *Engine) AddSlot(id string, kinds ...effects.Kind) error {
	if e.everReady {
		return ErrPrepared
	}
	if id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("%w: id %q", ErrInvalidSlot, id)
	}
	if _, dup := e.slotIndex[id]; dup {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidSlot, id)
	}
	if len(kinds) == 0 {
		return fmt.Errorf("%w: %q has no modes", ErrInvalidSlot, id)
	}

	seen := make(map[effects.Kind]bool, len(kinds))
	modes := make([]effects.Effect, 0, len(kinds))
	for _, kind := range kinds {
		if seen[kind] {
			return fmt.Errorf("%w: %q lists %s twice", ErrInvalidSlot, id, kind)
		}
		seen[kind] = true
		fx, err := e.cfg.registry.New(kind, e.cfg.effectOpts...)
		if err != nil {
			return fmt.Errorf("engine: slot %q: %w", id, err)
		}
		modes = append(modes, fx)
	}
	s, err := slot.New(modes, slot.WithCrossfade(e.cfg.crossfadeMs))
	if err != nil {
		return fmt.Errorf("engine: slot %q: %w", id, err)
	}

	si := len(e.slots)
	e.slots = append(e.slots, &slotEntry{id: id, slot: s})
	e.slotIndex[id] = si
	for mi, fx := range modes {
		ps := fx.Params()
		for i := range ps.Len() {
			p := ps.At(i)
			addr := Address(id, fx.Kind(), p.ID())
			e.paramIndex[addr] = len(e.params)
			e.params = append(e.params, paramRef{address: addr, slot: si, mode: mi, effect: fx, p: p})
		}
	}

	e.log.WithFields(logrus.Fields{
		"function": "AddSlot",
		"slot":     id,
		"modes":    len(modes),
	}).Debug("Slot added")
	return nil
}

// Prepare allocates everything RenderBlock needs. It must not run
// concurrently with RenderBlock.
func (e *Engine) Prepare(sampleRate float64, blockSize int) error {
	pc := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.prepared.Store(false)
	for _, s := range e.slots {
		if err := s.slot.Prepare(sampleRate, blockSize); err != nil {
			return fmt.Errorf("engine: slot %q: %w", s.id, err)
		}
	}
	e.sampleRate = sampleRate
	e.blockSize = blockSize

	a := &e.audio
	a.paramValue = make([]float64, len(e.params))
	a.paramSet = make([]bool, len(e.params))
	a.touched = make([]int, 0, len(e.params))
	a.modeReq = make([]int, len(e.slots))
	a.bypassReq = make([]int8, len(e.slots))
	for i := range e.slots {
		a.modeReq[i] = -1
		a.bypassReq[i] = -1
	}
	a.preset = nil
	a.loaded = -1
	a.mute = fader.NewRamp(1)
	a.fadeN = fader.Samples(e.cfg.presetFadeMs, sampleRate)
	a.tmp = make([]float64, blockSize)
	a.sum = make([]float64, blockSize)
	a.gains = make([]float64, blockSize)
	a.in = meter.NewLevel(sampleRate)
	a.out = meter.NewLevel(sampleRate)
	a.blocks = 0
	a.recovered = 0

	e.status = ring.NewTriple(func() *Status { return newStatus(e.params, e.slots) })
	e.readMu.Lock()
	e.last = Status{}
	e.lastRecovered = 0
	e.readMu.Unlock()

	e.everReady = true
	e.prepared.Store(true)

	e.log.WithFields(logrus.Fields{
		"function":    "Prepare",
		"sample_rate": sampleRate,
		"block_size":  blockSize,
		"slots":       len(e.slots),
		"parameters":  len(e.params),
		"routing":     e.cfg.routing.String(),
	}).Info("Engine prepared")
	return nil
}

// SlotIDs returns slot ids in chain order.
func (e *Engine) SlotIDs() []string {
	ids := make([]string, len(e.slots))
	for i, s := range e.slots {
		ids[i] = s.id
	}
	return ids
}

// Kinds returns the mode kinds of slot id in mode order.
func (e *Engine) Kinds(id string) ([]effects.Kind, error) {
	si, ok := e.slotIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	s := e.slots[si].slot
	kinds := make([]effects.Kind, s.Len())
	for i := range kinds {
		kinds[i] = s.Mode(i).Kind()
	}
	return kinds, nil
}

// Addresses returns every parameter address in declaration order.
func (e *Engine) Addresses() []string {
	out := make([]string, len(e.params))
	for i, p := range e.params {
		out[i] = p.address
	}
	return out
}

// Spec returns the declaration of the parameter at address.
func (e *Engine) Spec(address string) (param.Spec, error) {
	i, ok := e.paramIndex[address]
	if !ok {
		return param.Spec{}, fmt.Errorf("%w: %q", ErrUnknownParameter, address)
	}
	return e.params[i].p.Spec(), nil
}

// SampleRate returns the prepared sample rate.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// BlockSize returns the prepared block size.
func (e *Engine) BlockSize() int { return e.blockSize }
