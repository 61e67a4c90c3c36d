// Package param implements bounded, smoothed effect controls and the
// modulators that ride on top of them.
//
// A [Parameter] is owned by the audio context. Control-side edits reach it
// through the engine's intent queue and land as [Parameter.SetTarget] calls
// at a block boundary. [Parameter.StepRamp] runs once per block and
// [Parameter.Read] returns the value for the block being rendered:
//
//	read = quantize(clamp(base + modulation))
//
// Clamping happens after modulation is summed, so no modulator depth can
// push a control out of its range.
package param
