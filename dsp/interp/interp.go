package interp

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects a fractional interpolation method.
type Mode int

const (
	// Hermite is 4-point cubic Hermite interpolation.
	Hermite Mode = iota
	// Linear is 2-point linear interpolation.
	Linear
	// None truncates to the nearest older integer tap.
	None
)

// ErrUnknownMode is returned by ParseMode for an unrecognised name.
var ErrUnknownMode = errors.New("interp: unknown mode")

var modeNames = [...]string{"hermite", "linear", "none"}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}

	return modeNames[m]
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Mode(i), nil
		}
	}

	return Hermite, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Taps returns how many samples either side of the read point m needs:
// the first value is the count of newer taps, the second of older taps.
func (m Mode) Taps() (newer, older int) {
	switch m {
	case Hermite:
		return 1, 2
	case Linear:
		return 0, 1
	default:
		return 0, 0
	}
}

// Linear2 interpolates between x0 and x1 at t in [0, 1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

// Interpolate evaluates m around the four points xm1, x0, x1, x2 at t.
// Linear and None ignore the outer points.
func (m Mode) Interpolate(t, xm1, x0, x1, x2 float64) float64 {
	switch m {
	case Hermite:
		return Hermite4(t, xm1, x0, x1, x2)
	case Linear:
		return Linear2(t, x0, x1)
	default:
		return x0
	}
}
