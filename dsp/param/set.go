package param

import "fmt"

// Set is the ordered list of parameters owned by one effect.
type Set struct {
	params  []*Parameter
	index   map[ID]int
	changed []int
}

// NewSet builds a set from specs in declaration order.
func NewSet(specs ...Spec) (*Set, error) {
	s := &Set{index: make(map[ID]int, len(specs))}
	for _, spec := range specs {
		if _, err := s.Add(spec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSet is like NewSet but panics on error. For built-in declarations.
func MustSet(specs ...Spec) *Set {
	s, err := NewSet(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Add appends a parameter. Not for use while rendering.
func (s *Set) Add(spec Spec) (*Parameter, error) {
	if _, ok := s.index[spec.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, spec.ID)
	}
	p, err := New(spec)
	if err != nil {
		return nil, err
	}
	s.index[spec.ID] = len(s.params)
	s.params = append(s.params, p)
	s.changed = make([]int, 0, len(s.params))
	return p, nil
}

// Len returns the number of parameters.
func (s *Set) Len() int { return len(s.params) }

// At returns the i-th parameter in declaration order.
func (s *Set) At(i int) *Parameter { return s.params[i] }

// Get looks a parameter up by id.
func (s *Set) Get(id ID) (*Parameter, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.params[i], true
}

// Read returns the current value of id, or 0 when unknown.
func (s *Set) Read(id ID) float64 {
	if p, ok := s.Get(id); ok {
		return p.Read()
	}
	return 0
}

// Prepare configures every parameter for a sample rate and block size.
func (s *Set) Prepare(sampleRate float64, blockSize int, laws Laws) {
	for _, p := range s.params {
		p.Prepare(sampleRate, blockSize, laws)
	}
}

// Step advances every parameter by one block and returns the indices whose
// Read value changed. The slice is reused by the next call.
func (s *Set) Step() []int {
	s.changed = s.changed[:0]
	for i, p := range s.params {
		if p.StepRamp() {
			s.changed = append(s.changed, i)
		}
	}
	return s.changed
}

// Settled reports whether every parameter has reached its target.
func (s *Set) Settled() bool {
	for _, p := range s.params {
		if !p.Settled() {
			return false
		}
	}
	return true
}
