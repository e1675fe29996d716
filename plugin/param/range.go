package param

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned for a range that cannot normalise values.
var ErrInvalidRange = errors.New("param: invalid range")

// Range maps a plain value onto [0, 1]. Step > 0 snaps plain values to
// Min + k*Step; Skew != 1 warps the normalised scale, so that
// normalised = proportion^Skew.
type Range struct {
	Min  float64
	Max  float64
	Step float64
	Skew float64
}

// NewRange returns a linear range with the given step.
func NewRange(minValue, maxValue, step float64) Range {
	return Range{Min: minValue, Max: maxValue, Step: step, Skew: 1}
}

// WithSkew returns a copy of r with the given skew.
func (r Range) WithSkew(skew float64) Range {
	r.Skew = skew
	return r
}

// WithSkewForCentre returns a copy of r whose normalised midpoint maps to
// centre.
func (r Range) WithSkewForCentre(centre float64) Range {
	p := (centre - r.Min) / (r.Max - r.Min)
	r.Skew = math.Log(0.5) / math.Log(p)

	return r
}

// Validate reports whether r is usable.
func (r Range) Validate() error {
	for _, v := range []float64{r.Min, r.Max, r.Step, r.Skew} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound %v", ErrInvalidRange, r)
		}
	}

	if r.Max <= r.Min {
		return fmt.Errorf("%w: max %g must exceed min %g", ErrInvalidRange, r.Max, r.Min)
	}

	if r.Step < 0 || r.Step > r.Max-r.Min {
		return fmt.Errorf("%w: step %g", ErrInvalidRange, r.Step)
	}

	if r.Skew <= 0 {
		return fmt.Errorf("%w: skew %g must be > 0", ErrInvalidRange, r.Skew)
	}

	return nil
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Snap clamps v into the range and rounds it to the nearest step. NaN maps
// to Min.
func (r Range) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}

	if r.Step > 0 {
		v = r.Min + r.Step*math.Floor((v-r.Min)/r.Step+0.5)
	}

	return math.Min(math.Max(v, r.Min), r.Max)
}

// Normalize maps a plain value onto [0, 1].
func (r Range) Normalize(plain float64) float64 {
	if math.IsNaN(plain) {
		return 0
	}

	p := math.Min(math.Max((plain-r.Min)/(r.Max-r.Min), 0), 1)
	if r.Skew == 1 || r.Skew <= 0 {
		return p
	}

	return math.Pow(p, r.Skew)
}

// Denormalize maps a value in [0, 1] back to a snapped plain value.
func (r Range) Denormalize(normalized float64) float64 {
	if math.IsNaN(normalized) {
		normalized = 0
	}

	p := math.Min(math.Max(normalized, 0), 1)
	if r.Skew != 1 && r.Skew > 0 && p > 0 {
		p = math.Exp(math.Log(p) / r.Skew)
	}

	return r.Snap(r.Min + (r.Max-r.Min)*p)
}
