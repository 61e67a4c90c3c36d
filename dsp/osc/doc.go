// Package osc provides a sine lookup table and low-frequency oscillators
// used by modulation effects and parameter modulators.
//
// Phase is expressed in cycles in [0, 1). Oscillator output is bipolar in
// [-1, 1]; callers derive unipolar sweeps as 0.5*(1+v).
package osc
