package param

import (
	"errors"
	"fmt"
	"math"
)

// ID is the stable identity of a parameter within its effect. IDs are
// persisted in presets and must not change between releases.
type ID string

// Category groups parameters that share a ramp law and default ramp time.
type Category int

const (
	Generic Category = iota
	Gain
	Frequency
	Time
	Mix
	Stepped

	numCategories
)

var categoryNames = [numCategories]string{"generic", "gain", "frequency", "time", "mix", "stepped"}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

var (
	ErrInvalidSpec = errors.New("param: invalid spec")
	ErrDuplicateID = errors.New("param: duplicate id")
)

// Spec declares one parameter.
type Spec struct {
	ID       ID
	Name     string
	Unit     string
	Min      float64
	Max      float64
	Default  float64
	Step     float64 // quantization step, 0 for continuous
	Category Category
	RampMs   float64 // 0 uses the category default
}

// Validate reports whether the spec describes a usable parameter.
func (s Spec) Validate() error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidSpec)
	case !finite(s.Min) || !finite(s.Max) || !finite(s.Default):
		return fmt.Errorf("%w: %s: non-finite bounds", ErrInvalidSpec, s.ID)
	case s.Min >= s.Max:
		return fmt.Errorf("%w: %s: min %g >= max %g", ErrInvalidSpec, s.ID, s.Min, s.Max)
	case s.Default < s.Min || s.Default > s.Max:
		return fmt.Errorf("%w: %s: default %g outside [%g, %g]", ErrInvalidSpec, s.ID, s.Default, s.Min, s.Max)
	case s.Step < 0 || !finite(s.Step):
		return fmt.Errorf("%w: %s: step %g", ErrInvalidSpec, s.ID, s.Step)
	case s.RampMs < 0 || !finite(s.RampMs):
		return fmt.Errorf("%w: %s: ramp %g ms", ErrInvalidSpec, s.ID, s.RampMs)
	case s.Category < 0 || s.Category >= numCategories:
		return fmt.Errorf("%w: %s: category %d", ErrInvalidSpec, s.ID, s.Category)
	}
	return nil
}

// Constrain clamps v to the range and snaps it to the step grid.
func (s Spec) Constrain(v float64) float64 {
	v = math.Min(s.Max, math.Max(s.Min, v))
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		v = math.Min(s.Max, math.Max(s.Min, v))
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rate declares an LFO rate control in Hz.
func Rate(id ID, name string, minHz, maxHz, def float64) Spec {
	return Spec{ID: id, Name: name, Unit: "Hz", Min: minHz, Max: maxHz, Default: def, Category: Frequency}
}

// Freq declares a filter frequency control in Hz.
func Freq(id ID, name string, minHz, maxHz, def float64) Spec {
	return Spec{ID: id, Name: name, Unit: "Hz", Min: minHz, Max: maxHz, Default: def, Category: Frequency}
}

// Level declares a gain control in dB.
func Level(id ID, name string, minDB, maxDB, def float64) Spec {
	return Spec{ID: id, Name: name, Unit: "dB", Min: minDB, Max: maxDB, Default: def, Category: Gain}
}

// Amount declares a unitless [0, 1] control such as mix or depth.
func Amount(id ID, name string, def float64) Spec {
	return Spec{ID: id, Name: name, Min: 0, Max: 1, Default: def, Category: Mix}
}

// Millis declares a time control in milliseconds.
func Millis(id ID, name string, minMs, maxMs, def float64) Spec {
	return Spec{ID: id, Name: name, Unit: "ms", Min: minMs, Max: maxMs, Default: def, Category: Time}
}

// Choice declares a stepped control with n integer positions starting at 0.
func Choice(id ID, name string, n int, def int) Spec {
	return Spec{ID: id, Name: name, Min: 0, Max: float64(max(n-1, 1)), Default: float64(def), Step: 1, Category: Stepped}
}
