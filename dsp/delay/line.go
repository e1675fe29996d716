package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxrack/dsp/interp"
)

// ErrInvalidSize is returned when a line is created with a size < 1.
var ErrInvalidSize = errors.New("delay: invalid size")

// LineOption configures a Line.
type LineOption func(*Line)

// WithMode sets the fractional read interpolation.
func WithMode(mode interp.Mode) LineOption {
	return func(d *Line) {
		d.mode = mode
	}
}

// Line is a circular delay line. Read(1) returns the most recently written
// sample.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// New returns a delay line of fixed size.
func New(size int, opts ...LineOption) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	d := &Line{buffer: make([]float64, size), mode: interp.Hermite}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the fractional read interpolation.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// MaxDelay returns the largest fractional delay ReadFractional can serve
// without wrapping into the write position.
func (d *Line) MaxDelay() float64 {
	_, older := d.mode.Taps()
	return float64(max(1, len(d.buffer)-older))
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}

	readPos := (d.writePos - delay%size + size) % size

	return d.buffer[readPos]
}

// ReadFractional reads a delay in samples, clamped to [1, MaxDelay], with
// the line's interpolation mode.
func (d *Line) ReadFractional(delay float64) float64 {
	if len(d.buffer) == 0 {
		return 0
	}

	if math.IsNaN(delay) || delay < 1 {
		delay = 1
	}

	delay = math.Min(delay, d.MaxDelay())

	p := int(delay)
	t := delay - float64(p)

	return d.mode.Interpolate(t, d.Read(max(1, p-1)), d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}
