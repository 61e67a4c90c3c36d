// Package slot implements a multi-mode effect slot: several effects share
// one position in the chain and exactly one is heard once the slot is
// steady. Switching modes crossfades with a monotonic fader so that the
// output never jumps, including when a new switch arrives mid-crossfade.
package slot
