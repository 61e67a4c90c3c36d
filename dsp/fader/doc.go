// Package fader provides the monotonic gain ramp used for bypass, preset
// mute and mode crossfades, and block mixing helpers built on algo-vecmath.
package fader
