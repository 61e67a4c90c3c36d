// Package interp provides the fractional-read kernels used by the delay-based
// effects (chorus, flanger, echo, pitch shifter).
//
//   - [Linear2]:  2-point linear interpolation, cheapest
//   - [Hermite4]: 4-point cubic Hermite, the default for modulated taps
package interp
