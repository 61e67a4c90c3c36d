package engine

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects"
	"github.com/cwbudde/algo-pedal/dsp/fader"
	"github.com/cwbudde/algo-pedal/dsp/slot"
	vecmath "github.com/cwbudde/algo-vecmath"
)

type intentKind uint8

const (
	intentParam intentKind = iota
	intentMode
	intentBypass
	intentPreset
)

// intent is one control request. It is copied by value through the queue.
type intent struct {
	kind   intentKind
	index  int // parameter or slot index
	value  float64
	mode   int
	bypass bool
	preset *applyRecord
}

// applyRecord is a resolved preset: one value per parameter and one mode
// per slot, in engine order. It is built on the control side.
type applyRecord struct {
	preset int
	name   string
	values []float64
	modes  []int
}

// RenderBlock processes one block of input into out. in and out may
// alias. Inputs longer than the prepared block size are rendered in
// block-sized pieces. Before Prepare the input is copied through.
func (e *Engine) RenderBlock(in, out []float64) {
	n := min(len(in), len(out))
	if !e.prepared.Load() {
		copy(out[:n], in[:n])
		return
	}
	for off := 0; off < n; off += e.blockSize {
		end := min(off+e.blockSize, n)
		e.render(in[off:end], out[off:end])
	}
}

func (e *Engine) render(in, out []float64) {
	a := &e.audio

	e.drain()
	if a.preset != nil && a.mute.Done() && a.mute.Value() == 0 {
		e.applyPreset(a.preset)
		a.preset = nil
		a.mute.Start(1, a.fadeN)
	}

	for _, s := range e.slots {
		s.slot.BeginBlock()
	}
	a.in.Process(in)

	switch {
	case len(e.slots) == 0:
		copy(out, in)
	case e.cfg.routing == Parallel:
		e.parallel(in, out)
	default:
		copy(out, in)
		for _, s := range e.slots {
			s.slot.ProcessBlock(out, out)
		}
	}

	a.recovered += uint64(core.SanitizeBlock(out, core.DefaultSampleLimit))

	if !a.mute.Done() || a.mute.Value() < 1 {
		g := a.gains[:len(out)]
		a.mute.Fill(g)
		fader.Apply(out, g)
	}

	a.out.Process(out)
	a.blocks++
	e.publish()
}

func (e *Engine) parallel(in, out []float64) {
	a := &e.audio
	n := len(in)
	sum, tmp := a.sum[:n], a.tmp[:n]
	clear(sum)
	for _, s := range e.slots {
		s.slot.ProcessBlock(in, tmp)
		vecmath.AddBlockInPlace(sum, tmp)
	}
	vecmath.ScaleBlock(out, sum, 1/float64(len(e.slots)))
}

// drain empties the queue, keeps the newest request per target, then
// applies them. Parameter and mode requests that arrive while a preset is
// waiting for its fade are written into that preset instead, so they land
// on top of it rather than under it.
func (e *Engine) drain() {
	a := &e.audio
	for {
		it, ok := e.queue.TryPop()
		if !ok {
			break
		}
		switch it.kind {
		case intentParam:
			if a.preset != nil {
				a.preset.values[it.index] = it.value
				continue
			}
			if !a.paramSet[it.index] {
				a.paramSet[it.index] = true
				a.touched = append(a.touched, it.index)
			}
			a.paramValue[it.index] = it.value
		case intentMode:
			if a.preset != nil {
				a.preset.modes[it.index] = it.mode
				continue
			}
			a.modeReq[it.index] = it.mode
		case intentBypass:
			a.bypassReq[it.index] = 0
			if it.bypass {
				a.bypassReq[it.index] = 1
			}
		case intentPreset:
			e.discardPending()
			e.requestPreset(it.preset)
		}
	}

	for _, i := range a.touched {
		e.params[i].p.SetTarget(a.paramValue[i])
		a.paramSet[i] = false
	}
	a.touched = a.touched[:0]

	for si, m := range a.modeReq {
		if m >= 0 {
			// Indices are validated on the control side.
			_ = e.slots[si].slot.Select(m)
			a.modeReq[si] = -1
		}
	}
	for si, b := range a.bypassReq {
		if b >= 0 {
			e.slots[si].slot.SetBypass(b == 1)
			a.bypassReq[si] = -1
		}
	}
}

// discardPending drops parameter and mode requests drained ahead of a
// preset; the preset overwrites them anyway.
func (e *Engine) discardPending() {
	a := &e.audio
	for _, i := range a.touched {
		a.paramSet[i] = false
	}
	a.touched = a.touched[:0]
	for si := range a.modeReq {
		a.modeReq[si] = -1
	}
}

// requestPreset starts the mute fade. A newer request replaces one still
// waiting for the fade.
func (e *Engine) requestPreset(rec *applyRecord) {
	a := &e.audio
	a.preset = rec
	if a.mute.Target() != 0 {
		a.mute.Start(0, a.fadeN)
	}
}

// applyPreset snaps every parameter, refreshes derived state, clears
// history where the algorithm needs it and lands each slot on its mode.
func (e *Engine) applyPreset(rec *applyRecord) {
	for i, ref := range e.params {
		ref.p.Snap(rec.values[i])
	}
	for _, s := range e.slots {
		for _, fx := range s.slot.Modes() {
			ps := fx.Params()
			for i := range ps.Len() {
				fx.OnParameterChanged(ps.At(i).ID())
			}
			if fx.NeedsResetOnLoad() {
				fx.Reset()
			}
			for i := range ps.Len() {
				ps.At(i).ReseedModulator()
			}
		}
	}
	for si, s := range e.slots {
		_ = s.slot.Force(rec.modes[si])
	}
	e.audio.loaded = rec.preset
}

func (e *Engine) publish() {
	a := &e.audio
	st := e.status.Back()
	st.Block = a.blocks
	for i, ref := range e.params {
		st.Params[i].Value = ref.p.Read()
		st.Params[i].Target = ref.p.Target()
	}
	for si, entry := range e.slots {
		s := entry.slot
		ss := &st.Slots[si]
		ss.Mode = s.Active()
		fx := s.Mode(ss.Mode)
		ss.Kind = fx.Kind()
		ss.Transitioning = s.State() == slot.Transitioning
		ss.Progress = s.Progress()
		ss.Bypassed = fx.Bypassed()
		ss.Measurement, ss.Measured = 0, false
		if m, ok := fx.(effects.Measurer); ok {
			ss.Measurement, ss.Measured = m.Measurement()
		}
	}
	st.Input = LevelStatus{PeakDB: a.in.PeakDB(), RMSDB: a.in.RMSDB()}
	st.Output = LevelStatus{PeakDB: a.out.PeakDB(), RMSDB: a.out.RMSDB()}
	st.Muted = a.preset != nil || !a.mute.Done() || a.mute.Value() < 1
	st.Preset = a.loaded
	st.Recovered = a.recovered
	for _, entry := range e.slots {
		for _, fx := range entry.slot.Modes() {
			st.Recovered += fx.Recoveries()
		}
	}
	e.status.Publish()
}
