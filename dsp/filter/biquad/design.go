package biquad

import "math"

// Coefficient formulas follow the RBJ audio EQ cookbook. Frequencies are
// clamped into (0, 0.49*sampleRate) and Q to a small positive minimum so a
// ramping parameter can never produce an unstable section.

const (
	minQ           = 0.05
	nyquistSafety  = 0.49
	minFrequencyHz = 1.0
)

type rbj struct {
	cosW0, alpha, a float64
}

func prepare(sampleRate, freqHz, q, gainDB float64) rbj {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if math.IsNaN(freqHz) {
		freqHz = minFrequencyHz
	}
	freqHz = math.Min(math.Max(freqHz, minFrequencyHz), nyquistSafety*sampleRate)
	if !(q >= minQ) {
		q = minQ
	}
	w0 := 2 * math.Pi * freqHz / sampleRate
	return rbj{
		cosW0: math.Cos(w0),
		alpha: math.Sin(w0) / (2 * q),
		a:     math.Pow(10, gainDB/40),
	}
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	inv := 1 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

// LowPass designs a second-order lowpass.
func LowPass(sampleRate, freqHz, q float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, 0)
	b1 := 1 - p.cosW0
	return normalize(b1/2, b1, b1/2, 1+p.alpha, -2*p.cosW0, 1-p.alpha)
}

// HighPass designs a second-order highpass.
func HighPass(sampleRate, freqHz, q float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, 0)
	b1 := 1 + p.cosW0
	return normalize(b1/2, -b1, b1/2, 1+p.alpha, -2*p.cosW0, 1-p.alpha)
}

// BandPass designs a constant 0 dB peak-gain bandpass.
func BandPass(sampleRate, freqHz, q float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, 0)
	return normalize(p.alpha, 0, -p.alpha, 1+p.alpha, -2*p.cosW0, 1-p.alpha)
}

// Notch designs a band-reject filter.
func Notch(sampleRate, freqHz, q float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, 0)
	return normalize(1, -2*p.cosW0, 1, 1+p.alpha, -2*p.cosW0, 1-p.alpha)
}

// AllPass designs a second-order allpass.
func AllPass(sampleRate, freqHz, q float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, 0)
	return normalize(1-p.alpha, -2*p.cosW0, 1+p.alpha, 1+p.alpha, -2*p.cosW0, 1-p.alpha)
}

// Peak designs a peaking EQ with the given gain in dB.
func Peak(sampleRate, freqHz, q, gainDB float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, gainDB)
	return normalize(
		1+p.alpha*p.a, -2*p.cosW0, 1-p.alpha*p.a,
		1+p.alpha/p.a, -2*p.cosW0, 1-p.alpha/p.a,
	)
}

// LowShelf designs a shelving filter boosting or cutting below freqHz.
func LowShelf(sampleRate, freqHz, q, gainDB float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, gainDB)
	a := p.a
	sq := 2 * math.Sqrt(a) * p.alpha
	return normalize(
		a*((a+1)-(a-1)*p.cosW0+sq),
		2*a*((a-1)-(a+1)*p.cosW0),
		a*((a+1)-(a-1)*p.cosW0-sq),
		(a+1)+(a-1)*p.cosW0+sq,
		-2*((a-1)+(a+1)*p.cosW0),
		(a+1)+(a-1)*p.cosW0-sq,
	)
}

// HighShelf designs a shelving filter boosting or cutting above freqHz.
func HighShelf(sampleRate, freqHz, q, gainDB float64) Coefficients {
	p := prepare(sampleRate, freqHz, q, gainDB)
	a := p.a
	sq := 2 * math.Sqrt(a) * p.alpha
	return normalize(
		a*((a+1)+(a-1)*p.cosW0+sq),
		-2*a*((a-1)+(a+1)*p.cosW0),
		a*((a+1)+(a-1)*p.cosW0-sq),
		(a+1)-(a-1)*p.cosW0+sq,
		2*((a-1)-(a+1)*p.cosW0),
		(a+1)-(a-1)*p.cosW0-sq,
	)
}
