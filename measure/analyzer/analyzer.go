package analyzer

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sync/atomic"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/fifo"
	"github.com/cwbudde/algo-fxrack/dsp/window"
)

const (
	defaultFFTSize = 2048
	defaultFrames  = 4
	minFFTSize     = 64
	maxFFTSize     = 1 << 16

	// FloorDB is reported for bins with no energy.
	FloorDB = -200.0
)

var (
	// ErrInvalidParameter is returned by constructor options given a value
	// outside the parameter's range.
	ErrInvalidParameter = errors.New("analyzer: invalid parameter")
	// ErrNotPrepared is returned by Spectrum before Prepare.
	ErrNotPrepared = errors.New("analyzer: not prepared")
)

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithFFTSize sets the analysis frame length, a power of two in
// [64, 65536].
func WithFFTSize(n int) Option {
	return func(a *Analyzer) error {
		if n < minFFTSize || n > maxFFTSize || bits.OnesCount(uint(n)) != 1 {
			return fmt.Errorf("%w: fft size must be a power of two in [%d, %d]: %d",
				ErrInvalidParameter, minFFTSize, maxFFTSize, n)
		}

		a.fftSize = n

		return nil
	}
}

// WithWindow sets the analysis window.
func WithWindow(t window.Type) Option {
	return func(a *Analyzer) error {
		if _, err := window.ParseType(t.String()); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}

		a.windowType = t

		return nil
	}
}

// WithFrames sets how many analysis frames can be in flight between the
// audio and control sides.
func WithFrames(n int) Option {
	return func(a *Analyzer) error {
		if n < 2 || n > 64 {
			return fmt.Errorf("%w: frame count must be in [2, 64]: %d", ErrInvalidParameter, n)
		}

		a.frames = n

		return nil
	}
}

// Stats counts analysis frames.
type Stats struct {
	Frames        uint64
	DroppedFrames uint64
}

// Analyzer meters and analyses a block stream.
type Analyzer struct {
	fftSize    int
	frames     int
	windowType window.Type

	sampleRate float64
	meters     []channelMeter
	buffers    [][]float64
	filled     *fifo.Fifo[int] // audio -> control
	free       *fifo.Fifo[int] // control -> audio

	// Audio side.
	current int
	fill    int

	// Control side.
	plan   *algofft.Plan[complex128]
	coeffs []float64
	scale  float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
	mag    []float64

	published atomic.Uint64
	dropped   atomic.Uint64
}

// New creates an analyzer with a 2048-point Hann analysis.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		fftSize:    defaultFFTSize,
		frames:     defaultFrames,
		windowType: window.TypeHann,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(a)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// FFTSize returns the analysis frame length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// Bins returns the number of spectrum bins, fftSize/2 + 1.
func (a *Analyzer) Bins() int { return a.fftSize/2 + 1 }

// BinFrequency returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int) float64 {
	return float64(k) * a.sampleRate / float64(a.fftSize)
}

// Prepare allocates meters, frames and the FFT plan for spec. It must not
// overlap Process or Spectrum.
func (a *Analyzer) Prepare(spec core.ProcessSpec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}

	plan, err := algofft.NewPlan64(a.fftSize)
	if err != nil {
		return fmt.Errorf("analyzer: fft plan: %w", err)
	}

	coeffs := window.Generate(a.windowType, a.fftSize, window.WithPeriodic())

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return fmt.Errorf("analyzer: window: %w", err)
	}

	a.filled, err = fifo.New[int](a.frames)
	if err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}

	a.free = fifo.MustNew[int](a.frames)

	a.buffers = make([][]float64, a.frames+1)
	for i := range a.buffers {
		a.buffers[i] = make([]float64, a.fftSize)
	}

	a.sampleRate = spec.SampleRate
	a.meters = make([]channelMeter, spec.NumChannels)
	a.plan = plan
	a.coeffs = coeffs
	a.scale = 2 / (float64(a.fftSize) * gain)
	a.in = make([]complex128, a.fftSize)
	a.out = make([]complex128, a.fftSize)
	a.re = make([]float64, a.Bins())
	a.im = make([]float64, a.Bins())
	a.mag = make([]float64, a.Bins())

	a.Reset()

	return nil
}

// Reset clears the meters and returns every frame to the audio side. It
// must not overlap Process or Spectrum.
func (a *Analyzer) Reset() {
	for i := range a.meters {
		a.meters[i].reset()
	}

	if a.free == nil {
		return
	}

	var idx int
	for a.filled.Pull(&idx) {
	}

	for a.free.Pull(&idx) {
	}

	// One frame is held by the audio side, the rest wait in free.
	a.current = 0
	a.fill = 0

	for i := 1; i < a.frames; i++ {
		a.free.Push(i)
	}
}

// Process measures block without modifying it. Audio side only.
func (a *Analyzer) Process(block core.Block) {
	channels := min(len(block), len(a.meters))
	if channels == 0 {
		return
	}

	for ch := range channels {
		a.meters[ch].measure(block[ch])
	}

	gain := 1 / float64(channels)

	for i := range block.NumSamples() {
		sum := 0.0
		for ch := range channels {
			sum += block[ch][i]
		}

		a.buffers[a.current][a.fill] = sum * gain
		a.fill++

		if a.fill == a.fftSize {
			a.publish()
		}
	}
}

// publish hands the full frame to the control side and takes a free one.
// Without a free frame the audio side fills the scratch frame, which is
// never published.
func (a *Analyzer) publish() {
	a.fill = 0

	switch {
	case a.current == a.scratch():
		a.dropped.Add(1)
	case a.filled.Push(a.current):
		a.published.Add(1)
	default:
		a.dropped.Add(1)
		return
	}

	if !a.free.Pull(&a.current) {
		a.current = a.scratch()
	}
}

func (a *Analyzer) scratch() int {
	return a.frames
}

// Levels appends the current channel levels to dst and returns it.
func (a *Analyzer) Levels(dst []Level) []Level {
	for i := range a.meters {
		dst = append(dst, a.meters[i].level())
	}

	return dst
}

// Spectrum writes the magnitude spectrum of the newest complete frame in
// dBFS into dst, which must hold Bins() values. It reports false when no
// new frame is available. Control side only.
func (a *Analyzer) Spectrum(dst []float64) (bool, error) {
	if a.plan == nil {
		return false, ErrNotPrepared
	}

	if len(dst) < a.Bins() {
		return false, fmt.Errorf("analyzer: spectrum needs %d bins, got %d", a.Bins(), len(dst))
	}

	idx := -1

	var next int
	for a.filled.Pull(&next) {
		if idx >= 0 {
			a.free.Push(idx)
		}

		idx = next
	}

	if idx < 0 {
		return false, nil
	}

	frame := a.buffers[idx]
	for i, x := range frame {
		a.in[i] = complex(x*a.coeffs[i], 0)
	}

	a.free.Push(idx)

	err := a.plan.Forward(a.out, a.in)
	if err != nil {
		return false, fmt.Errorf("analyzer: fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	for k, m := range a.mag {
		scale := a.scale
		if k == 0 || k == a.fftSize/2 {
			scale *= 0.5
		}

		v := m * scale
		if v <= 0 || math.IsNaN(v) {
			dst[k] = FloorDB
			continue
		}

		dst[k] = math.Max(20*math.Log10(v), FloorDB)
	}

	return true, nil
}

// Stats returns the frame counters.
func (a *Analyzer) Stats() Stats {
	return Stats{
		Frames:        a.published.Load(),
		DroppedFrames: a.dropped.Load(),
	}
}
