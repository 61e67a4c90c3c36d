// Package preset stores parameter snapshots for the pedal engine.
//
// A snapshot maps parameter addresses of the form "slot/kind/param" to
// values and slot ids to mode indices. Readers ignore addresses they do not
// know and leave missing ones at their defaults, so snapshots stay usable
// across firmware versions that add or drop controls.
package preset

import (
	"context"
	"errors"
	"maps"
)

var (
	ErrNotFound    = errors.New("preset: not found")
	ErrStorageFull = errors.New("preset: storage full")
	ErrWrite       = errors.New("preset: write failed")
	ErrUnknownSlot = errors.New("preset: unknown slot")
)

// Snapshot is one stored preset.
type Snapshot struct {
	Name   string             `yaml:"name,omitempty"`
	Values map[string]float64 `yaml:"values"`
	Modes  map[string]int     `yaml:"modes,flow"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Name:   s.Name,
		Values: maps.Clone(s.Values),
		Modes:  maps.Clone(s.Modes),
	}
}

// Store is the persistence collaborator. Implementations must be safe for
// use from several goroutines and must never be called from the audio
// callback.
type Store interface {
	Load(ctx context.Context, slot int) (Snapshot, error)
	Save(ctx context.Context, slot int, snap Snapshot) error
}
