package engine

import "github.com/cwbudde/algo-pedal/dsp/effects"

// EventType classifies an Event.
type EventType int

const (
	ParameterChanged EventType = iota
	ModeChanged
	PresetLoaded
	PresetSaved
)

func (t EventType) String() string {
	switch t {
	case ParameterChanged:
		return "parameter"
	case ModeChanged:
		return "mode"
	case PresetLoaded:
		return "preset-load"
	case PresetSaved:
		return "preset-save"
	}
	return "unknown"
}

// Event is a status message for the UI.
type Event struct {
	Type EventType

	// ParameterChanged
	Address string
	Value   float64

	// ModeChanged
	Slot string
	Mode int
	Kind effects.Kind

	// PresetLoaded, PresetSaved. Err is nil on success.
	Preset int
	Name   string
	Err    error
}
