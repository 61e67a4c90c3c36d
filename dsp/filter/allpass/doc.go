// Package allpass provides first-order allpass stages for phasers and a
// delay-based Schroeder allpass used as a reverb diffuser.
package allpass
