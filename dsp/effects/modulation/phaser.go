package modulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxrack/dsp/core"
)

// PhaserStages is the number of first-order allpass sections per channel.
const PhaserStages = 6

const (
	defaultPhaserRateHz   = 0.2
	defaultPhaserDepth    = 0.05
	defaultPhaserCentreHz = 1000.0
	defaultPhaserFeedback = 0.0
	defaultPhaserMix      = 0.05

	phaserMinFreqHz          = 20.0
	phaserMaxFreqHz          = 20000.0
	phaserNyquistSafetyRatio = 0.49
	maxPhaserRateHz          = 100.0
	maxPhaserFeedback        = 0.99
)

// ErrInvalidParameter is returned by constructor options given a value
// outside the parameter's range.
var ErrInvalidParameter = errors.New("modulation: invalid parameter")

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*Phaser) error

// WithPhaserRateHz sets the LFO rate in Hz.
func WithPhaserRateHz(rateHz float64) PhaserOption {
	return func(p *Phaser) error {
		if rateHz <= 0 || rateHz > maxPhaserRateHz || !core.IsFinite(rateHz) {
			return fmt.Errorf("%w: phaser rate must be in (0, %g]: %f", ErrInvalidParameter, maxPhaserRateHz, rateHz)
		}

		p.rateHz = rateHz

		return nil
	}
}

// WithPhaserDepth sets the sweep depth in [0, 1].
func WithPhaserDepth(depth float64) PhaserOption {
	return func(p *Phaser) error {
		if depth < 0 || depth > 1 || !core.IsFinite(depth) {
			return fmt.Errorf("%w: phaser depth must be in [0, 1]: %f", ErrInvalidParameter, depth)
		}

		p.depth = depth

		return nil
	}
}

// WithPhaserCentreFrequencyHz sets the sweep centre in Hz.
func WithPhaserCentreFrequencyHz(freqHz float64) PhaserOption {
	return func(p *Phaser) error {
		if freqHz < phaserMinFreqHz || freqHz > phaserMaxFreqHz || !core.IsFinite(freqHz) {
			return fmt.Errorf("%w: phaser centre frequency must be in [%g, %g]: %f",
				ErrInvalidParameter, phaserMinFreqHz, phaserMaxFreqHz, freqHz)
		}

		p.centreHz = freqHz

		return nil
	}
}

// WithPhaserFeedback sets the feedback amount in [-1, 1].
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(p *Phaser) error {
		if feedback < -1 || feedback > 1 || !core.IsFinite(feedback) {
			return fmt.Errorf("%w: phaser feedback must be in [-1, 1]: %f", ErrInvalidParameter, feedback)
		}

		p.feedback = feedback

		return nil
	}
}

// WithPhaserMix sets the wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(p *Phaser) error {
		if mix < 0 || mix > 1 || !core.IsFinite(mix) {
			return fmt.Errorf("%w: phaser mix must be in [0, 1]: %f", ErrInvalidParameter, mix)
		}

		p.mix = mix

		return nil
	}
}

type phaserAllpassStage struct {
	x1 float64
	y1 float64
}

func (s *phaserAllpassStage) process(x, a float64) float64 {
	y := a*x + s.x1 - a*s.y1
	s.x1 = x
	s.y1 = core.FlushDenormals(y)

	return y
}

type phaserChannel struct {
	stages   [PhaserStages]phaserAllpassStage
	feedback float64
}

// Phaser is a multi-channel allpass-cascade phaser. The LFO sweeps the
// allpass break frequency on a logarithmic scale around the centre
// frequency; depth 1 reaches the nearer of 20 Hz and the upper limit.
type Phaser struct {
	rateHz   float64
	depth    float64
	centreHz float64
	feedback float64
	mix      float64

	sampleRate float64
	maxFreqHz  float64
	lfoPhase   float64

	channels []phaserChannel
	mixer    dryWet
}

// NewPhaser creates a phaser with the rack defaults and optional overrides.
// The phaser must be prepared before it processes audio.
func NewPhaser(opts ...PhaserOption) (*Phaser, error) {
	p := &Phaser{
		rateHz:   defaultPhaserRateHz,
		depth:    defaultPhaserDepth,
		centreHz: defaultPhaserCentreHz,
		feedback: defaultPhaserFeedback,
		mix:      defaultPhaserMix,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Prepare allocates per-channel state for spec and resets the phaser.
func (p *Phaser) Prepare(spec core.ProcessSpec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("phaser: %w", err)
	}

	p.sampleRate = spec.SampleRate
	p.maxFreqHz = math.Min(phaserMaxFreqHz, phaserNyquistSafetyRatio*spec.SampleRate)
	p.channels = make([]phaserChannel, spec.NumChannels)
	p.mixer.prepare(spec.NumChannels, spec.MaxBlockSize)
	p.Reset()

	return nil
}

// SetRateHz sets the LFO rate, clamped to (0, 100] Hz.
func (p *Phaser) SetRateHz(rateHz float64) {
	p.rateHz = core.Clamp(core.Sanitize(rateHz, p.rateHz), 0.001, maxPhaserRateHz)
}

// SetDepth sets the sweep depth, clamped to [0, 1].
func (p *Phaser) SetDepth(depth float64) {
	p.depth = core.Clamp(core.Sanitize(depth, p.depth), 0, 1)
}

// SetCentreFrequencyHz sets the sweep centre, clamped to [20, 20000] Hz.
func (p *Phaser) SetCentreFrequencyHz(freqHz float64) {
	p.centreHz = core.Clamp(core.Sanitize(freqHz, p.centreHz), phaserMinFreqHz, phaserMaxFreqHz)
}

// SetFeedback sets the feedback amount, clamped to [-1, 1].
func (p *Phaser) SetFeedback(feedback float64) {
	p.feedback = core.Clamp(core.Sanitize(feedback, p.feedback), -1, 1)
}

// SetMix sets the wet amount, clamped to [0, 1].
func (p *Phaser) SetMix(mix float64) {
	p.mix = core.Clamp(core.Sanitize(mix, p.mix), 0, 1)
}

// Reset clears allpass, feedback and LFO state.
func (p *Phaser) Reset() {
	for ch := range p.channels {
		p.channels[ch] = phaserChannel{}
	}

	p.lfoPhase = 0
}

// Process applies the phaser to block in place. Channels beyond the
// prepared count and calls before Prepare leave the audio untouched.
func (p *Phaser) Process(block core.Block) {
	segment := p.mixer.capacity()
	if segment == 0 {
		return
	}

	channels := min(len(block), len(p.channels))
	total := block.NumSamples()

	for offset := 0; offset < total; offset += segment {
		end := min(offset+segment, total)
		phase := p.lfoPhase

		for ch := range channels {
			p.lfoPhase = phase
			p.processSegment(ch, block[ch][offset:end])
		}

		if channels == 0 {
			p.advanceLFO(end - offset)
		}
	}
}

func (p *Phaser) processSegment(ch int, buf []float64) {
	p.mixer.push(ch, buf)

	state := &p.channels[ch]
	feedback := core.Clamp(p.feedback, -maxPhaserFeedback, maxPhaserFeedback)

	for i, x := range buf {
		coef := phaserAllpassCoefficient(p.modulatedFrequency(), p.sampleRate)

		y := x + state.feedback*feedback
		for s := range state.stages {
			y = state.stages[s].process(y, coef)
		}

		state.feedback = y
		buf[i] = y

		p.advanceLFO(1)
	}

	p.mixer.mix(ch, buf, p.mix)
}

func (p *Phaser) advanceLFO(samples int) {
	p.lfoPhase += 2 * math.Pi * p.rateHz * float64(samples) / p.sampleRate
	p.lfoPhase = math.Mod(p.lfoPhase, 2*math.Pi)
}

// modulatedFrequency maps the centre onto [0, 1] between 20 Hz and the
// upper limit on a log scale, offsets it by the LFO and maps back.
func (p *Phaser) modulatedFrequency() float64 {
	span := math.Log(p.maxFreqHz / phaserMinFreqHz)
	centre := core.Clamp(math.Log(p.centreHz/phaserMinFreqHz)/span, 0, 1)
	swing := p.depth * math.Min(centre, 1-centre)
	norm := core.Clamp(centre+swing*math.Sin(p.lfoPhase), 0, 1)

	return phaserMinFreqHz * math.Exp(norm*span)
}

// RateHz returns the LFO rate in Hz.
func (p *Phaser) RateHz() float64 { return p.rateHz }

// Depth returns the sweep depth in [0, 1].
func (p *Phaser) Depth() float64 { return p.depth }

// CentreFrequencyHz returns the sweep centre in Hz.
func (p *Phaser) CentreFrequencyHz() float64 { return p.centreHz }

// Feedback returns the feedback amount in [-1, 1].
func (p *Phaser) Feedback() float64 { return p.feedback }

// Mix returns the wet amount in [0, 1].
func (p *Phaser) Mix() float64 { return p.mix }

func phaserAllpassCoefficient(freqHz, sampleRate float64) float64 {
	freqHz = core.Clamp(freqHz, 1, phaserNyquistSafetyRatio*sampleRate)

	g := math.Tan(math.Pi * freqHz / sampleRate)
	if !core.IsFinite(g) {
		return 0
	}

	return (1 - g) / (1 + g)
}
