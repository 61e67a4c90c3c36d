// Package effects implements the pedal's effect algorithms behind one
// lifecycle contract.
//
// Every effect is a [Unit]: a [Kernel] holding the DSP state, the ordered
// [param.Set] it declares at construction, a click-free bypass fader and a
// per-block sanitizer. The set of kinds is closed and enumerated by
// [Kinds]; [DefaultRegistry] maps each kind to its constructor.
//
// Lifecycle:
//
//	Prepare      control context, allocates
//	BeginBlock   audio context, steps ramps and refreshes derived state
//	ProcessBlock audio context, no allocation, never fails
//	Reset        audio context, clears history
//
// Non-finite samples produced by a kernel are replaced at the block boundary
// and the kernel's history is cleared; nothing is reported to the caller.
package effects
