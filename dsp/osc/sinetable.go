package osc

import "math"

const defaultTableBits = 11

// SineTable is a read-only power-of-two sine table with linear
// interpolation. One table can be shared by any number of oscillators.
type SineTable struct {
	table []float64
	mask  int
	size  float64
}

// NewSineTable builds a table of 1<<bits entries plus one guard point.
// bits outside [4, 16] falls back to the default size.
func NewSineTable(bits int) *SineTable {
	if bits < 4 || bits > 16 {
		bits = defaultTableBits
	}
	n := 1 << bits
	t := &SineTable{
		table: make([]float64, n+1),
		mask:  n - 1,
		size:  float64(n),
	}
	for i := range t.table {
		t.table[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
	}
	return t
}

var shared = NewSineTable(defaultTableBits)

// Shared returns the package-wide default table.
func Shared() *SineTable { return shared }

// At returns sin(2*pi*phase) for phase in cycles. Any finite phase is
// accepted; it is wrapped into [0, 1).
func (t *SineTable) At(phase float64) float64 {
	phase -= math.Floor(phase)
	pos := phase * t.size
	i := int(pos)
	frac := pos - float64(i)
	i &= t.mask
	a := t.table[i]
	return a + frac*(t.table[i+1]-a)
}

// Len returns the number of table entries without the guard point.
func (t *SineTable) Len() int { return t.mask + 1 }
