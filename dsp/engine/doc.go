// Package engine is the pedal's processing core. An Engine owns the effect
// slots and is driven from two sides: the audio transport calls
// RenderBlock once per block, and control goroutines send parameter edits,
// mode switches, bypass toggles and preset loads through a bounded
// lock-free queue that RenderBlock drains at block start.
//
// Nothing on the RenderBlock path blocks, allocates or takes a lock.
// Control goroutines observe the audio side only through Status, a
// snapshot the audio side publishes at the end of every block.
package engine
