// Package biquad provides second-order IIR filter sections for the pedal's
// tone stacks, wah and echo feedback paths.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Coefficient design
// ([LowPass], [HighPass], [BandPass], [Peak], ...) is kept separate from
// processing so an effect can refresh coefficients at a block boundary
// without touching filter history.
package biquad
