package design

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/filter/biquad"
)

const (
	defaultQ     = 1 / math.Sqrt2
	minQ         = 0.025
	nyquistRatio = 0.49
)

// Mode selects the response shape of the general filter.
type Mode int

// Modes in the order the rack's choice parameter lists them.
const (
	ModePeak Mode = iota
	ModeBandpass
	ModeNotch
	ModeAllpass
)

// ModeNames lists the display names of the modes by index.
var ModeNames = []string{"Peak", "bandpass", "notch", "allpass"}

// String returns the display name of m.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(ModeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}

	return ModeNames[m]
}

// ParseMode maps a display name, case-insensitively, to its Mode.
func ParseMode(name string) (Mode, bool) {
	for i, n := range ModeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Mode(i), true
		}
	}

	return ModePeak, false
}

// Design returns the coefficients for mode at freq Hz. freq is clamped to
// (0, 0.49*sampleRate), q to at least 0.025; gainDB only affects ModePeak.
// Invalid sample rates and unknown modes yield the identity section.
func Design(mode Mode, freq, q, gainDB, sampleRate float64) biquad.Coefficients {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return biquad.Identity()
	}

	freq = core.Clamp(core.Sanitize(freq, 1000), 1, nyquistRatio*sampleRate)
	q = math.Max(normalizedQ(q), minQ)
	gainDB = core.Sanitize(gainDB, 0)

	switch mode {
	case ModePeak:
		return Peak(freq, gainDB, q, sampleRate)
	case ModeBandpass:
		return Bandpass(freq, q, sampleRate)
	case ModeNotch:
		return Notch(freq, q, sampleRate)
	case ModeAllpass:
		return Allpass(freq, q, sampleRate)
	default:
		return biquad.Identity()
	}
}

// Peak designs a peaking EQ with gainDB of boost or cut at freq.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))
	a := math.Pow(10, gainDB/40)

	return normalize(
		1+alpha*a, -2*cw, 1-alpha*a,
		1+alpha/a, -2*cw, 1-alpha/a,
	)
}

// Bandpass designs a constant 0 dB peak gain bandpass.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))

	return normalize(
		alpha, 0, -alpha,
		1+alpha, -2*cw, 1-alpha,
	)
}

// Notch designs a band-reject filter centred at freq.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))

	return normalize(
		1, -2*cw, 1,
		1+alpha, -2*cw, 1-alpha,
	)
}

// Allpass designs a second-order allpass whose phase passes -180 degrees
// at freq.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cw, alpha := cosAlpha(w0, normalizedQ(q))

	return normalize(
		1-alpha, -2*cw, 1+alpha,
		1+alpha, -2*cw, 1-alpha,
	)
}

func cosAlpha(w0, q float64) (float64, float64) {
	return math.Cos(w0), math.Sin(w0) / (2 * q)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || !core.IsFinite(freq) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || !core.IsFinite(q) {
		return defaultQ
	}

	return q
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !core.IsFinite(a0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
