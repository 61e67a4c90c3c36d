package effects

import (
	"errors"
	"fmt"
)

// Factory builds one effect instance.
type Factory func(opts ...Option) (Effect, error)

// Registry maps effect kinds to their factories.
type Registry struct {
	factories map[Kind]Factory
	order     []Kind
}

var errDuplicateKind = errors.New("effects: duplicate kind")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// Register adds a factory for kind.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if kind == "" {
		return errors.New("effects: empty kind")
	}
	if factory == nil {
		return errors.New("effects: nil factory")
	}
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateKind, kind)
	}
	r.factories[kind] = factory
	r.order = append(r.order, kind)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err.Error())
	}
}

// New builds an effect of the given kind.
func (r *Registry) New(kind Kind, opts ...Option) (Effect, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return f(opts...)
}

// Kinds returns registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.order...)
}

func unitFactory(ctor func(...Option) *Unit) Factory {
	return func(opts ...Option) (Effect, error) {
		return ctor(opts...), nil
	}
}

// DefaultRegistry returns a registry with every built-in kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KindClean, unitFactory(NewClean))
	r.MustRegister(KindChorus, unitFactory(NewChorus))
	r.MustRegister(KindFlanger, unitFactory(NewFlanger))
	r.MustRegister(KindPhaser, unitFactory(NewPhaser))
	r.MustRegister(KindTremolo, unitFactory(NewTremolo))
	r.MustRegister(KindEcho, unitFactory(NewEcho))
	r.MustRegister(KindPitch, unitFactory(NewPitch))
	r.MustRegister(KindOverdrive, unitFactory(NewOverdrive))
	r.MustRegister(KindAutoWah, unitFactory(NewAutoWah))
	r.MustRegister(KindReverb, unitFactory(NewReverb))
	r.MustRegister(KindTuner, unitFactory(NewTuner))
	return r
}
