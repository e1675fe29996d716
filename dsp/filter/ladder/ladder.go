package ladder

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	approx "github.com/meko-christian/algo-approx"
)

const (
	defaultCutoffHz  = 20000.0
	defaultResonance = 0.0
	defaultDrive     = 1.0

	minCutoffHz  = 20.0
	maxCutoffHz  = 20000.0
	minDrive     = 1.0
	maxDrive     = 100.0
	nyquistRatio = 0.49

	// Resonance in [0, 1] maps onto a feedback factor in [0.1, 1].
	minFeedback = 0.1
	tanhLimit   = 20.0
)

// ErrInvalidParameter is returned by constructor options given a value
// outside the parameter's range.
var ErrInvalidParameter = errors.New("ladder: invalid parameter")

// Mode selects the filter response.
type Mode int

// Modes in the order the rack's choice parameter lists them.
const (
	LPF12 Mode = iota
	HPF12
	BPF12
	LPF24
	HPF24
	BPF24
	numModes
)

// ModeNames lists the display names of the modes by index.
var ModeNames = []string{"LPF12", "HPF12", "BPF12", "LPF24", "HPF24", "BPF24"}

// tapMix holds the output weights of the five internal taps and the
// resonance compensation for one mode.
type tapMix struct {
	a    [5]float64
	comp float64
}

var modeMix = [numModes]tapMix{
	LPF12: {a: [5]float64{0, 0, 1, 0, 0}, comp: 0.5},
	HPF12: {a: [5]float64{1, -2, 1, 0, 0}, comp: 0},
	BPF12: {a: [5]float64{0, 0, -1, 1, 0}, comp: 0.5},
	LPF24: {a: [5]float64{0, 0, 0, 0, 1}, comp: 0.5},
	HPF24: {a: [5]float64{1, -4, 6, -4, 1}, comp: 0},
	BPF24: {a: [5]float64{0, 0, 1, -2, 1}, comp: 0.5},
}

// String returns the display name of m.
func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return fmt.Sprintf("Mode(%d)", int(m))
	}

	return ModeNames[m]
}

// Valid reports whether m names a response.
func (m Mode) Valid() bool {
	return m >= 0 && m < numModes
}

// ParseMode maps a display name, case-insensitively, to its Mode.
func ParseMode(name string) (Mode, bool) {
	for i, n := range ModeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Mode(i), true
		}
	}

	return LPF12, false
}

// Option mutates filter construction parameters.
type Option func(*Filter) error

// WithMode sets the response.
func WithMode(mode Mode) Option {
	return func(f *Filter) error {
		if !mode.Valid() {
			return fmt.Errorf("%w: mode %d", ErrInvalidParameter, int(mode))
		}

		f.mode = mode

		return nil
	}
}

// WithCutoffHz sets the cutoff in [20, 20000] Hz.
func WithCutoffHz(cutoffHz float64) Option {
	return func(f *Filter) error {
		if cutoffHz < minCutoffHz || cutoffHz > maxCutoffHz || !core.IsFinite(cutoffHz) {
			return fmt.Errorf("%w: cutoff must be in [%g, %g]: %f", ErrInvalidParameter, minCutoffHz, maxCutoffHz, cutoffHz)
		}

		f.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets the resonance in [0, 1].
func WithResonance(resonance float64) Option {
	return func(f *Filter) error {
		if resonance < 0 || resonance > 1 || !core.IsFinite(resonance) {
			return fmt.Errorf("%w: resonance must be in [0, 1]: %f", ErrInvalidParameter, resonance)
		}

		f.resonance = resonance

		return nil
	}
}

// WithDrive sets the input drive in [1, 100].
func WithDrive(drive float64) Option {
	return func(f *Filter) error {
		if drive < minDrive || drive > maxDrive || !core.IsFinite(drive) {
			return fmt.Errorf("%w: drive must be in [%g, %g]: %f", ErrInvalidParameter, minDrive, maxDrive, drive)
		}

		f.drive = drive

		return nil
	}
}

// Filter is a multi-channel ladder filter. Parameters are shared by all
// channels; each channel keeps its own five-tap state.
type Filter struct {
	mode      Mode
	cutoffHz  float64
	resonance float64
	drive     float64

	sampleRate float64

	// Derived per parameter change.
	pole     float64
	feedback float64
	gain     float64
	drive2   float64
	gain2    float64

	state [][5]float64
}

// New creates a filter with the rack defaults (LPF12, fully open, no
// resonance, unity drive) and optional overrides.
func New(opts ...Option) (*Filter, error) {
	f := &Filter{
		mode:      LPF12,
		cutoffHz:  defaultCutoffHz,
		resonance: defaultResonance,
		drive:     defaultDrive,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(f)
		if err != nil {
			return nil, err
		}
	}

	f.updateResonance()
	f.updateDrive()

	return f, nil
}

// Prepare allocates per-channel state for spec and resets the filter.
func (f *Filter) Prepare(spec core.ProcessSpec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("ladder: %w", err)
	}

	f.sampleRate = spec.SampleRate
	f.state = make([][5]float64, spec.NumChannels)
	f.updateCutoff()
	f.Reset()

	return nil
}

// SetMode selects the response. Unknown modes are ignored.
func (f *Filter) SetMode(mode Mode) {
	if mode.Valid() {
		f.mode = mode
	}
}

// SetCutoffHz sets the cutoff, clamped to [20, 20000] Hz and below
// Nyquist.
func (f *Filter) SetCutoffHz(cutoffHz float64) {
	cutoffHz = core.Clamp(core.Sanitize(cutoffHz, f.cutoffHz), minCutoffHz, maxCutoffHz)
	if cutoffHz == f.cutoffHz {
		return
	}

	f.cutoffHz = cutoffHz
	f.updateCutoff()
}

// SetResonance sets the resonance, clamped to [0, 1].
func (f *Filter) SetResonance(resonance float64) {
	f.resonance = core.Clamp(core.Sanitize(resonance, f.resonance), 0, 1)
	f.updateResonance()
}

// SetDrive sets the input drive, clamped to [1, 100].
func (f *Filter) SetDrive(drive float64) {
	drive = core.Clamp(core.Sanitize(drive, f.drive), minDrive, maxDrive)
	if drive == f.drive {
		return
	}

	f.drive = drive
	f.updateDrive()
}

// Mode returns the active response.
func (f *Filter) Mode() Mode { return f.mode }

// CutoffHz returns the cutoff in Hz.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns the resonance in [0, 1].
func (f *Filter) Resonance() float64 { return f.resonance }

// Drive returns the input drive.
func (f *Filter) Drive() float64 { return f.drive }

// Reset clears every channel's state.
func (f *Filter) Reset() {
	for ch := range f.state {
		f.state[ch] = [5]float64{}
	}
}

// Process filters block in place. Channels beyond the prepared count and
// calls before Prepare leave the audio untouched.
func (f *Filter) Process(block core.Block) {
	mix := modeMix[f.mode]

	for ch := range min(len(block), len(f.state)) {
		s := &f.state[ch]
		buf := block[ch]

		for i, x := range buf {
			buf[i] = f.processSample(s, &mix, x)
		}
	}
}

func (f *Filter) processSample(s *[5]float64, mix *tapMix, x float64) float64 {
	a1 := f.pole
	g := 1 - a1
	b0 := g * (10.0 / 13.0)
	b1 := g * (3.0 / 13.0)

	dx := f.gain * tanh(f.drive*x)
	a := dx + f.feedback*-4*(f.gain2*tanh(f.drive2*s[4])-dx*mix.comp)
	b := b1*s[0] + a1*s[1] + b0*a
	c := b1*s[1] + a1*s[2] + b0*b
	d := b1*s[2] + a1*s[3] + b0*c
	e := b1*s[3] + a1*s[4] + b0*d

	s[0] = a
	s[1] = core.FlushDenormals(b)
	s[2] = core.FlushDenormals(c)
	s[3] = core.FlushDenormals(d)
	s[4] = core.FlushDenormals(e)

	return a*mix.a[0] + b*mix.a[1] + c*mix.a[2] + d*mix.a[3] + e*mix.a[4]
}

func (f *Filter) updateCutoff() {
	if f.sampleRate <= 0 {
		return
	}

	fc := math.Min(f.cutoffHz, nyquistRatio*f.sampleRate)
	f.pole = math.Exp(-2 * math.Pi * fc / f.sampleRate)
}

func (f *Filter) updateResonance() {
	f.feedback = minFeedback + (1-minFeedback)*f.resonance
}

// updateDrive derives the loudness compensation for the input and
// feedback saturators.
func (f *Filter) updateDrive() {
	f.gain = math.Pow(f.drive, -2.642)*0.6103 + 0.3903
	f.drive2 = f.drive*0.04 + 0.96
	f.gain2 = math.Pow(f.drive2, -2.642)*0.6103 + 0.3903
}

// tanh evaluates tanh(|x|) as 1 - 2/(e^(2|x|)+1) with a fast exponential
// and restores the sign.
func tanh(x float64) float64 {
	ax := math.Min(math.Abs(x), tanhLimit)
	y := 1 - 2/(approx.FastExp(2*ax)+1)

	if x < 0 {
		return -y
	}

	return y
}
