package meter

import (
	"math"

	"github.com/cwbudde/algo-pedal/dsp/core"
)

const (
	defaultHoldMs    = 1000.0
	defaultReleaseDB = 20.0 // dB per second
	defaultRMSMs     = 300.0
)

// Level tracks block peak with hold and release ballistics and a
// time-averaged RMS.
type Level struct {
	sampleRate float64

	peak        float64
	hold        float64
	holdLeft    int
	holdSamples int
	releaseDBps float64

	meanSquare float64
	rmsCoef    float64
}

// NewLevel returns a meter with a 1 s peak hold, 20 dB/s release and a
// 300 ms RMS window.
func NewLevel(sampleRate float64) *Level {
	l := &Level{releaseDBps: defaultReleaseDB}
	l.SetSampleRate(sampleRate)
	return l
}

// SetSampleRate recomputes time constants.
func (l *Level) SetSampleRate(sampleRate float64) {
	if !(sampleRate > 0) {
		sampleRate = 48000
	}
	l.sampleRate = sampleRate
	l.holdSamples = int(defaultHoldMs / 1000 * sampleRate)
	l.rmsCoef = core.SmoothingCoefficient(defaultRMSMs, sampleRate)
}

// Process updates the meter with one block.
func (l *Level) Process(block []float64) {
	blockPeak := 0.0
	a := l.rmsCoef
	ms := l.meanSquare
	for _, x := range block {
		if v := math.Abs(x); v > blockPeak {
			blockPeak = v
		}
		ms += a * (x*x - ms)
	}
	l.meanSquare = core.FlushDenormals(ms)

	decay := math.Pow(10, -l.releaseDBps/20*float64(len(block))/l.sampleRate)
	l.peak = core.FlushDenormals(l.peak * decay)
	if blockPeak > l.peak {
		l.peak = blockPeak
	}

	if blockPeak >= l.hold {
		l.hold = blockPeak
		l.holdLeft = l.holdSamples
		return
	}
	l.holdLeft -= len(block)
	if l.holdLeft <= 0 {
		l.holdLeft = 0
		l.hold = l.peak
	}
}

// Peak returns the decaying peak in linear units.
func (l *Level) Peak() float64 { return l.peak }

// Hold returns the held peak in linear units.
func (l *Level) Hold() float64 { return l.hold }

// RMS returns the smoothed RMS level in linear units.
func (l *Level) RMS() float64 { return math.Sqrt(l.meanSquare) }

// PeakDB returns Peak in dBFS.
func (l *Level) PeakDB() float64 { return core.LinearToDB(l.peak) }

// RMSDB returns RMS in dBFS.
func (l *Level) RMSDB() float64 { return core.LinearToDB(l.RMS()) }

// Reset clears all readings.
func (l *Level) Reset() {
	l.peak = 0
	l.hold = 0
	l.holdLeft = 0
	l.meanSquare = 0
}
