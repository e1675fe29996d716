package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/interp"
)

const (
	defaultMaxDelaySeconds = 1.0
	maxMaxDelaySeconds     = 10.0
)

// ErrInvalidParameter is returned by constructor options given a value
// outside the parameter's range.
var ErrInvalidParameter = errors.New("delay: invalid parameter")

// Option configures a Delay.
type Option func(*Delay) error

// WithMaxDelaySeconds sets the longest delay Prepare allocates for.
func WithMaxDelaySeconds(seconds float64) Option {
	return func(d *Delay) error {
		if seconds <= 0 || seconds > maxMaxDelaySeconds || !core.IsFinite(seconds) {
			return fmt.Errorf("%w: max delay must be in (0, %g] s: %f", ErrInvalidParameter, maxMaxDelaySeconds, seconds)
		}

		d.maxDelaySeconds = seconds

		return nil
	}
}

// WithDelayMs sets the initial delay in milliseconds.
func WithDelayMs(ms float64) Option {
	return func(d *Delay) error {
		if ms < 0 || !core.IsFinite(ms) {
			return fmt.Errorf("%w: delay must be >= 0 ms: %f", ErrInvalidParameter, ms)
		}

		d.delayMs = ms

		return nil
	}
}

// WithInterpolation sets the fractional read interpolation.
func WithInterpolation(mode interp.Mode) Option {
	return func(d *Delay) error {
		if _, err := interp.ParseMode(mode.String()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}

		d.mode = mode

		return nil
	}
}

// Delay is a multi-channel fractional delay. A delay of zero passes audio
// through unchanged.
type Delay struct {
	maxDelaySeconds float64
	delayMs         float64
	mode            interp.Mode

	sampleRate float64
	lines      []*Line
}

// NewDelay creates a delay with a one second capacity and zero delay.
func NewDelay(opts ...Option) (*Delay, error) {
	d := &Delay{
		maxDelaySeconds: defaultMaxDelaySeconds,
		mode:            interp.Hermite,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(d)
		if err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Prepare allocates one line per channel for spec and resets the delay.
func (d *Delay) Prepare(spec core.ProcessSpec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("delay: %w", err)
	}

	newer, older := d.mode.Taps()
	size := int(math.Ceil(d.maxDelaySeconds*spec.SampleRate)) + 1 + newer + older

	d.sampleRate = spec.SampleRate
	d.lines = make([]*Line, spec.NumChannels)

	for ch := range d.lines {
		d.lines[ch], err = New(size, WithMode(d.mode))
		if err != nil {
			return fmt.Errorf("delay: %w", err)
		}
	}

	return nil
}

// SetDelayMs sets the delay, clamped to [0, max delay].
func (d *Delay) SetDelayMs(ms float64) {
	d.delayMs = core.Clamp(core.Sanitize(ms, d.delayMs), 0, 1000*d.maxDelaySeconds)
}

// SetDelaySamples sets the delay in samples at the prepared rate. It has no
// effect before Prepare.
func (d *Delay) SetDelaySamples(samples float64) {
	if d.sampleRate <= 0 {
		return
	}

	d.SetDelayMs(1000 * samples / d.sampleRate)
}

// DelayMs returns the delay in milliseconds.
func (d *Delay) DelayMs() float64 { return d.delayMs }

// DelaySamples returns the delay in samples at the prepared rate.
func (d *Delay) DelaySamples() float64 {
	return math.Min(d.delayMs*d.sampleRate/1000, d.maxDelaySeconds*d.sampleRate)
}

// MaxDelaySeconds returns the capacity Prepare allocates for.
func (d *Delay) MaxDelaySeconds() float64 { return d.maxDelaySeconds }

// Reset clears every line.
func (d *Delay) Reset() {
	for _, l := range d.lines {
		l.Reset()
	}
}

// Process delays block in place. Channels beyond the prepared count and
// calls before Prepare leave the audio untouched.
func (d *Delay) Process(block core.Block) {
	channels := min(len(block), len(d.lines))
	delay := d.DelaySamples() + 1

	for ch := range channels {
		line := d.lines[ch]
		buf := block[ch]

		for i, x := range buf {
			line.Write(x)
			buf[i] = line.ReadFractional(delay)
		}
	}
}
