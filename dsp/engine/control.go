package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/preset"
	"github.com/sirupsen/logrus"
)

// The methods in this file belong to the control side. They are safe for
// concurrent use by several goroutines and never wait on the audio side.

func (e *Engine) push(it intent) error {
	if !e.prepared.Load() {
		return ErrNotPrepared
	}
	e.pushMu.Lock()
	ok := e.queue.TryPush(it)
	e.pushMu.Unlock()
	if !ok {
		e.dropped.Add(1)
		return ErrQueueFull
	}
	return nil
}

// SetParameter requests a new target for the parameter at address. The
// value is clamped and quantized when applied; NaN is ignored.
func (e *Engine) SetParameter(address string, value float64) error {
	i, ok := e.paramIndex[address]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, address)
	}
	return e.push(intent{kind: intentParam, index: i, value: value})
}

// SelectMode requests a crossfade to mode in slot id.
func (e *Engine) SelectMode(id string, mode int) error {
	si, ok := e.slotIndex[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	if mode < 0 || mode >= e.slots[si].slot.Len() {
		return fmt.Errorf("%w: %q has no mode %d", ErrUnknownMode, id, mode)
	}
	return e.push(intent{kind: intentMode, index: si, mode: mode})
}

// SelectKind is SelectMode by effect kind.
func (e *Engine) SelectKind(id string, kind effects.Kind) error {
	si, ok := e.slotIndex[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	mode, ok := e.slots[si].slot.Index(kind)
	if !ok {
		return fmt.Errorf("%w: %q has no %s mode", ErrUnknownMode, id, kind)
	}
	return e.push(intent{kind: intentMode, index: si, mode: mode})
}

// SetBypass requests a click-free bypass of slot id.
func (e *Engine) SetBypass(id string, bypassed bool) error {
	si, ok := e.slotIndex[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	return e.push(intent{kind: intentBypass, index: si, bypass: bypassed})
}

// Status returns a copy of the most recently published status.
func (e *Engine) Status() (Status, error) {
	if !e.prepared.Load() {
		return Status{}, ErrNotPrepared
	}
	e.readMu.Lock()
	defer e.readMu.Unlock()
	st, _ := e.status.Front()
	return st.clone(), nil
}

// Events returns the channel Poll and the preset operations report on.
// Events are dropped when the channel is full.
func (e *Engine) Events() <-chan Event { return e.events }

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.log.WithFields(logrus.Fields{
			"function": "emit",
			"type":     ev.Type.String(),
		}).Debug("Event channel full, dropping event")
	}
}

// Poll compares the latest status with the previous poll and emits an
// event per changed parameter value and slot mode. The first poll after
// Prepare records a baseline and emits nothing. It also logs requests
// dropped on a full queue and samples replaced on the output since the
// last poll. Poll returns the number of events emitted.
func (e *Engine) Poll() int {
	if !e.prepared.Load() {
		return 0
	}
	e.readMu.Lock()
	defer e.readMu.Unlock()

	front, _ := e.status.Front()
	cur := front.clone()
	prev := e.last
	e.last = cur

	if d := e.dropped.Load(); d != e.lastDropped {
		e.log.WithFields(logrus.Fields{
			"function": "Poll",
			"dropped":  d - e.lastDropped,
		}).Warn("Control requests dropped on a full queue")
		e.lastDropped = d
	}
	if cur.Recovered != e.lastRecovered {
		e.log.WithFields(logrus.Fields{
			"function": "Poll",
			"samples":  cur.Recovered - e.lastRecovered,
		}).Warn("Replaced non-finite output samples")
		e.lastRecovered = cur.Recovered
	}

	if prev.Params == nil {
		return 0
	}
	n := 0
	for i, p := range cur.Params {
		if p.Value != prev.Params[i].Value {
			e.emit(Event{Type: ParameterChanged, Address: p.Address, Value: p.Value})
			n++
		}
	}
	for i, s := range cur.Slots {
		if s.Mode != prev.Slots[i].Mode {
			e.emit(Event{Type: ModeChanged, Slot: s.ID, Mode: s.Mode, Kind: s.Kind})
			n++
		}
	}
	return n
}

// LoadPreset reads preset slot n from the store and queues it. The audio
// side fades the output out, applies every value and mode at a block
// boundary and fades back in. Addresses the engine does not own are
// logged and skipped; parameters the snapshot omits return to their
// defaults and slots it omits return to mode 0.
func (e *Engine) LoadPreset(ctx context.Context, n int) error {
	if !e.prepared.Load() {
		return ErrNotPrepared
	}
	if e.cfg.store == nil {
		return ErrNoStore
	}
	snap, err := e.cfg.store.Load(ctx, n)
	if err != nil {
		e.emit(Event{Type: PresetLoaded, Preset: n, Err: err})
		return fmt.Errorf("engine: load preset %d: %w", n, err)
	}

	rec := e.resolve(n, snap)
	if err := e.push(intent{kind: intentPreset, preset: rec}); err != nil {
		e.emit(Event{Type: PresetLoaded, Preset: n, Name: snap.Name, Err: err})
		return err
	}
	e.log.WithFields(logrus.Fields{
		"function": "LoadPreset",
		"preset":   n,
		"name":     snap.Name,
	}).Info("Preset queued")
	e.emit(Event{Type: PresetLoaded, Preset: n, Name: snap.Name})
	return nil
}

func (e *Engine) resolve(n int, snap preset.Snapshot) *applyRecord {
	rec := &applyRecord{
		preset: n,
		name:   snap.Name,
		values: make([]float64, len(e.params)),
		modes:  make([]int, len(e.slots)),
	}
	for i, ref := range e.params {
		rec.values[i] = ref.p.Spec().Default
	}
	for addr, v := range snap.Values {
		i, ok := e.paramIndex[addr]
		if !ok || math.IsNaN(v) {
			e.log.WithFields(logrus.Fields{
				"function": "LoadPreset",
				"preset":   n,
				"address":  addr,
			}).Warn("Ignoring unknown parameter in preset")
			continue
		}
		rec.values[i] = v
	}
	for id, mode := range snap.Modes {
		si, ok := e.slotIndex[id]
		if !ok || mode < 0 || mode >= e.slots[si].slot.Len() {
			e.log.WithFields(logrus.Fields{
				"function": "LoadPreset",
				"preset":   n,
				"slot":     id,
				"mode":     mode,
			}).Warn("Ignoring unknown slot mode in preset")
			continue
		}
		rec.modes[si] = mode
	}
	return rec
}

// SavePreset stores the published targets and modes as preset slot n.
// Live effect state is never read.
func (e *Engine) SavePreset(ctx context.Context, n int, name string) error {
	if e.cfg.store == nil {
		return ErrNoStore
	}
	st, err := e.Status()
	if err != nil {
		return err
	}
	snap := preset.Snapshot{
		Name:   name,
		Values: make(map[string]float64, len(st.Params)),
		Modes:  make(map[string]int, len(st.Slots)),
	}
	for _, p := range st.Params {
		snap.Values[p.Address] = p.Target
	}
	for _, s := range st.Slots {
		snap.Modes[s.ID] = s.Mode
	}

	if err := e.cfg.store.Save(ctx, n, snap); err != nil {
		e.emit(Event{Type: PresetSaved, Preset: n, Name: name, Err: err})
		e.log.WithFields(logrus.Fields{
			"function": "SavePreset",
			"preset":   n,
			"error":    err.Error(),
		}).Error("Failed to save preset")
		return fmt.Errorf("engine: save preset %d: %w", n, err)
	}
	e.emit(Event{Type: PresetSaved, Preset: n, Name: name})
	return nil
}
