package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/interp"
)

const (
	defaultChorusRateHz        = 0.2
	defaultChorusDepth         = 0.05
	defaultChorusCentreDelayMs = 7.0
	defaultChorusFeedback      = 0.0
	defaultChorusMix           = 0.05

	minChorusCentreDelayMs = 1.0
	maxChorusCentreDelayMs = 100.0
	maxChorusRateHz        = 100.0
	maxChorusFeedback      = 0.99

	// Taps either side of the read point used by the Hermite interpolator.
	chorusInterpolationGuard = 3
)

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*Chorus) error

// WithChorusRateHz sets the LFO rate in Hz.
func WithChorusRateHz(rateHz float64) ChorusOption {
	return func(c *Chorus) error {
		if rateHz <= 0 || rateHz > maxChorusRateHz || !core.IsFinite(rateHz) {
			return fmt.Errorf("%w: chorus rate must be in (0, %g]: %f", ErrInvalidParameter, maxChorusRateHz, rateHz)
		}

		c.rateHz = rateHz

		return nil
	}
}

// WithChorusDepth sets the modulation depth in [0, 1].
func WithChorusDepth(depth float64) ChorusOption {
	return func(c *Chorus) error {
		if depth < 0 || depth > 1 || !core.IsFinite(depth) {
			return fmt.Errorf("%w: chorus depth must be in [0, 1]: %f", ErrInvalidParameter, depth)
		}

		c.depth = depth

		return nil
	}
}

// WithChorusCentreDelayMs sets the centre delay in milliseconds.
func WithChorusCentreDelayMs(delayMs float64) ChorusOption {
	return func(c *Chorus) error {
		if delayMs < minChorusCentreDelayMs || delayMs > maxChorusCentreDelayMs || !core.IsFinite(delayMs) {
			return fmt.Errorf("%w: chorus centre delay must be in [%g, %g] ms: %f",
				ErrInvalidParameter, minChorusCentreDelayMs, maxChorusCentreDelayMs, delayMs)
		}

		c.centreDelayMs = delayMs

		return nil
	}
}

// WithChorusFeedback sets the feedback amount in [-1, 1].
func WithChorusFeedback(feedback float64) ChorusOption {
	return func(c *Chorus) error {
		if feedback < -1 || feedback > 1 || !core.IsFinite(feedback) {
			return fmt.Errorf("%w: chorus feedback must be in [-1, 1]: %f", ErrInvalidParameter, feedback)
		}

		c.feedback = feedback

		return nil
	}
}

// WithChorusMix sets the wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(c *Chorus) error {
		if mix < 0 || mix > 1 || !core.IsFinite(mix) {
			return fmt.Errorf("%w: chorus mix must be in [0, 1]: %f", ErrInvalidParameter, mix)
		}

		c.mix = mix

		return nil
	}
}

type chorusChannel struct {
	line  []float64
	write int
}

// Chorus is a multi-channel modulated-delay chorus.
//
// The read delay follows
//
//	d(t) = centreDelay * (1 + depth * sin(phase))
//
// so depth 1 sweeps between zero and twice the centre delay. The delay lines
// are sized in Prepare for the largest centre delay, so changing any
// parameter afterwards never reallocates.
type Chorus struct {
	rateHz        float64
	depth         float64
	centreDelayMs float64
	feedback      float64
	mix           float64

	sampleRate float64
	maxDelay   float64
	lfoPhase   float64

	channels []chorusChannel
	mixer    dryWet
}

// NewChorus creates a chorus with the rack defaults and optional overrides.
// The chorus must be prepared before it processes audio.
func NewChorus(opts ...ChorusOption) (*Chorus, error) {
	c := &Chorus{
		rateHz:        defaultChorusRateHz,
		depth:         defaultChorusDepth,
		centreDelayMs: defaultChorusCentreDelayMs,
		feedback:      defaultChorusFeedback,
		mix:           defaultChorusMix,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(c)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Prepare allocates the per-channel delay lines for spec and resets the
// chorus.
func (c *Chorus) Prepare(spec core.ProcessSpec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("chorus: %w", err)
	}

	c.sampleRate = spec.SampleRate
	c.maxDelay = 2 * maxChorusCentreDelayMs * 0.001 * spec.SampleRate
	size := int(math.Ceil(c.maxDelay)) + chorusInterpolationGuard + 1

	c.channels = make([]chorusChannel, spec.NumChannels)
	for ch := range c.channels {
		c.channels[ch].line = make([]float64, size)
	}

	c.mixer.prepare(spec.NumChannels, spec.MaxBlockSize)
	c.Reset()

	return nil
}

// SetRateHz sets the LFO rate, clamped to (0, 100] Hz.
func (c *Chorus) SetRateHz(rateHz float64) {
	c.rateHz = core.Clamp(core.Sanitize(rateHz, c.rateHz), 0.001, maxChorusRateHz)
}

// SetDepth sets the modulation depth, clamped to [0, 1].
func (c *Chorus) SetDepth(depth float64) {
	c.depth = core.Clamp(core.Sanitize(depth, c.depth), 0, 1)
}

// SetCentreDelayMs sets the centre delay, clamped to [1, 100] ms.
func (c *Chorus) SetCentreDelayMs(delayMs float64) {
	c.centreDelayMs = core.Clamp(core.Sanitize(delayMs, c.centreDelayMs),
		minChorusCentreDelayMs, maxChorusCentreDelayMs)
}

// SetFeedback sets the feedback amount, clamped to [-1, 1].
func (c *Chorus) SetFeedback(feedback float64) {
	c.feedback = core.Clamp(core.Sanitize(feedback, c.feedback), -1, 1)
}

// SetMix sets the wet amount, clamped to [0, 1].
func (c *Chorus) SetMix(mix float64) {
	c.mix = core.Clamp(core.Sanitize(mix, c.mix), 0, 1)
}

// Reset clears the delay lines and the LFO phase.
func (c *Chorus) Reset() {
	for ch := range c.channels {
		core.Zero(c.channels[ch].line)
		c.channels[ch].write = 0
	}

	c.lfoPhase = 0
}

// Process applies the chorus to block in place. Channels beyond the
// prepared count and calls before Prepare leave the audio untouched.
func (c *Chorus) Process(block core.Block) {
	segment := c.mixer.capacity()
	if segment == 0 {
		return
	}

	channels := min(len(block), len(c.channels))
	total := block.NumSamples()

	for offset := 0; offset < total; offset += segment {
		end := min(offset+segment, total)
		phase := c.lfoPhase

		for ch := range channels {
			c.lfoPhase = phase
			c.processSegment(ch, block[ch][offset:end])
		}

		if channels == 0 {
			c.advanceLFO(end - offset)
		}
	}
}

func (c *Chorus) processSegment(ch int, buf []float64) {
	c.mixer.push(ch, buf)

	state := &c.channels[ch]
	feedback := core.Clamp(c.feedback, -maxChorusFeedback, maxChorusFeedback)
	centre := c.centreDelayMs * 0.001 * c.sampleRate

	for i, x := range buf {
		delay := centre * (1 + c.depth*math.Sin(c.lfoPhase))
		wet := state.read(delay, c.maxDelay)

		state.push(core.FlushDenormals(x + wet*feedback))
		buf[i] = wet

		c.advanceLFO(1)
	}

	c.mixer.mix(ch, buf, c.mix)
}

func (c *Chorus) advanceLFO(samples int) {
	c.lfoPhase += 2 * math.Pi * c.rateHz * float64(samples) / c.sampleRate
	c.lfoPhase = math.Mod(c.lfoPhase, 2*math.Pi)
}

// RateHz returns the LFO rate in Hz.
func (c *Chorus) RateHz() float64 { return c.rateHz }

// Depth returns the modulation depth in [0, 1].
func (c *Chorus) Depth() float64 { return c.depth }

// CentreDelayMs returns the centre delay in milliseconds.
func (c *Chorus) CentreDelayMs() float64 { return c.centreDelayMs }

// Feedback returns the feedback amount in [-1, 1].
func (c *Chorus) Feedback() float64 { return c.feedback }

// Mix returns the wet amount in [0, 1].
func (c *Chorus) Mix() float64 { return c.mix }

func (s *chorusChannel) push(x float64) {
	s.line[s.write] = x

	s.write++
	if s.write >= len(s.line) {
		s.write = 0
	}
}

// read returns the sample written delay samples before the next write.
// A delay of 1 is the most recently pushed sample.
func (s *chorusChannel) read(delay, maxDelay float64) float64 {
	delay = core.Clamp(delay, 1, maxDelay)

	p := int(delay)
	t := delay - float64(p)

	return interp.Hermite4(t, s.tap(p-1), s.tap(p), s.tap(p+1), s.tap(p+2))
}

func (s *chorusChannel) tap(delay int) float64 {
	if delay < 1 {
		delay = 1
	}

	idx := s.write - delay
	if idx < 0 {
		idx += len(s.line)
	}

	return s.line[idx]
}
