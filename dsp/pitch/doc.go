// Package pitch provides a low-latency time-domain pitch shifter for live
// guitar input.
package pitch
