package engine

import (
	"github.com/cwbudde/algo-pedal/dsp/effects"
)

// ParamStatus is one parameter as of the end of a block.
type ParamStatus struct {
	Address string
	// Value is what the effect heard, modulation included.
	Value float64
	// Target is where the control is heading. Presets save targets.
	Target float64
}

// SlotStatus describes one slot.
type SlotStatus struct {
	ID            string
	Mode          int
	Kind          effects.Kind
	Transitioning bool
	Progress      float64
	Bypassed      bool
	// Measurement is the reading of a measuring mode, such as the tuner's
	// detected frequency in Hz. Measured is false when there is none.
	Measurement float64
	Measured    bool
}

// LevelStatus is a meter reading in dBFS.
type LevelStatus struct {
	PeakDB float64
	RMSDB  float64
}

// Status is the snapshot the audio side publishes after every block.
type Status struct {
	Block  uint64
	Params []ParamStatus
	Slots  []SlotStatus
	Input  LevelStatus
	Output LevelStatus
	// Muted is set while a preset load fades the output.
	Muted bool
	// Preset is the last preset slot applied, or -1.
	Preset int
	// Recovered counts non-finite samples replaced since Prepare, at any
	// mode's output or at the engine output.
	Recovered uint64
}

func newStatus(params []paramRef, slots []*slotEntry) *Status {
	s := &Status{
		Params: make([]ParamStatus, len(params)),
		Slots:  make([]SlotStatus, len(slots)),
		Preset: -1,
	}
	for i, p := range params {
		s.Params[i] = ParamStatus{Address: p.address, Value: p.p.Read(), Target: p.p.Target()}
	}
	for i, e := range slots {
		s.Slots[i] = SlotStatus{ID: e.id, Kind: e.slot.Mode(0).Kind(), Progress: 1}
	}
	return s
}

func (s *Status) clone() Status {
	c := *s
	c.Params = append([]ParamStatus(nil), s.Params...)
	c.Slots = append([]SlotStatus(nil), s.Slots...)
	return c
}

// Param returns the status of the parameter at address.
func (s Status) Param(address string) (ParamStatus, bool) {
	for _, p := range s.Params {
		if p.Address == address {
			return p, true
		}
	}
	return ParamStatus{}, false
}

// Slot returns the status of slot id.
func (s Status) Slot(id string) (SlotStatus, bool) {
	for _, sl := range s.Slots {
		if sl.ID == id {
			return sl, true
		}
	}
	return SlotStatus{}, false
}
