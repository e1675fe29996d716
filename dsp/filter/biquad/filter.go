package biquad

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/core"
)

// Filter runs one biquad per channel with shared coefficients.
type Filter struct {
	coeffs   Coefficients
	sections []Section
}

// NewFilter returns an unprepared filter that passes audio through until
// coefficients are set.
func NewFilter() *Filter {
	return &Filter{coeffs: Identity()}
}

// Prepare allocates one section per channel and clears their state.
func (f *Filter) Prepare(spec core.ProcessSpec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("biquad: %w", err)
	}

	f.sections = make([]Section, spec.NumChannels)
	for ch := range f.sections {
		f.sections[ch].Coefficients = f.coeffs
	}

	return nil
}

// SetCoefficients replaces the coefficients of every channel without
// touching the delay state. Unstable or non-finite sets are ignored.
func (f *Filter) SetCoefficients(c Coefficients) {
	if !c.Stable() || !finite(c) {
		return
	}

	f.coeffs = c
	for ch := range f.sections {
		f.sections[ch].Coefficients = c
	}
}

// Coefficients returns the active coefficients.
func (f *Filter) Coefficients() Coefficients {
	return f.coeffs
}

// Process filters each prepared channel of block in place.
func (f *Filter) Process(block core.Block) {
	for ch := range min(len(block), len(f.sections)) {
		f.sections[ch].ProcessBlock(block[ch])
	}
}

// Reset clears every channel's delay state.
func (f *Filter) Reset() {
	for ch := range f.sections {
		f.sections[ch].Reset()
	}
}

func finite(c Coefficients) bool {
	return core.IsFinite(c.B0) && core.IsFinite(c.B1) && core.IsFinite(c.B2) &&
		core.IsFinite(c.A1) && core.IsFinite(c.A2)
}
