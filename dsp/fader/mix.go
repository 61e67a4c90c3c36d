package fader

import vecmath "github.com/cwbudde/algo-vecmath"

// Mix writes the crossfade a*(1-g) + b*g into dst using the per-sample
// gains in g. scratch must hold at least len(dst) samples and must not
// alias any other argument; dst may alias a or b.
func Mix(dst, a, b, g, scratch []float64) {
	n := len(dst)
	a, b, g, scratch = a[:n], b[:n], g[:n], scratch[:n]

	vecmath.MulBlock(scratch, a, g)
	vecmath.ScaleBlock(scratch, scratch, -1)
	vecmath.AddBlockInPlace(scratch, a)
	vecmath.MulBlock(dst, b, g)
	vecmath.AddBlockInPlace(dst, scratch)
}

// Accumulate adds src*g into dst sample by sample. scratch must not alias
// dst or src.
func Accumulate(dst, src, g, scratch []float64) {
	n := len(dst)
	scratch = scratch[:n]
	vecmath.MulBlock(scratch, src[:n], g[:n])
	vecmath.AddBlockInPlace(dst, scratch)
}

// Apply multiplies buf by the per-sample gains in g.
func Apply(buf, g []float64) {
	vecmath.MulBlockInPlace(buf, g[:len(buf)])
}
