// Package meter measures signal level and pitch on the audio path.
//
// Both meters are driven from the audio context one block at a time and
// never allocate after construction. Readings are plain values; publishing
// them to other goroutines is the caller's job.
package meter
