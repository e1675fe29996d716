package core

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is returned when a ProcessSpec cannot be used to prepare
// a processor.
var ErrInvalidSpec = errors.New("invalid process spec")

// ProcessSpec describes the stream format a processor is prepared for.
// It changes only on host format changes, never per block.
type ProcessSpec struct {
	SampleRate   float64
	MaxBlockSize int
	NumChannels  int
}

// ProcessSpecOption mutates a ProcessSpec.
type ProcessSpecOption func(*ProcessSpec)

// DefaultProcessSpec returns a stereo 48 kHz spec with 512-sample blocks.
func DefaultProcessSpec() ProcessSpec {
	return ProcessSpec{
		SampleRate:   48000,
		MaxBlockSize: 512,
		NumChannels:  2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessSpecOption {
	return func(spec *ProcessSpec) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			spec.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block the host will deliver.
func WithMaxBlockSize(blockSize int) ProcessSpecOption {
	return func(spec *ProcessSpec) {
		if blockSize > 0 {
			spec.MaxBlockSize = blockSize
		}
	}
}

// WithNumChannels sets the channel count.
func WithNumChannels(channels int) ProcessSpecOption {
	return func(spec *ProcessSpec) {
		if channels > 0 {
			spec.NumChannels = channels
		}
	}
}

// NewProcessSpec applies zero or more options to the default spec.
func NewProcessSpec(opts ...ProcessSpecOption) ProcessSpec {
	spec := DefaultProcessSpec()
	for _, opt := range opts {
		if opt != nil {
			opt(&spec)
		}
	}

	return spec
}

// Validate reports whether the spec can be used to prepare a processor.
func (s ProcessSpec) Validate() error {
	if s.SampleRate <= 0 || !IsFinite(s.SampleRate) {
		return fmt.Errorf("%w: sample rate must be > 0 and finite: %f", ErrInvalidSpec, s.SampleRate)
	}

	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: max block size must be > 0: %d", ErrInvalidSpec, s.MaxBlockSize)
	}

	if s.NumChannels <= 0 {
		return fmt.Errorf("%w: channel count must be > 0: %d", ErrInvalidSpec, s.NumChannels)
	}

	return nil
}

// Nyquist returns half the sample rate.
func (s ProcessSpec) Nyquist() float64 {
	return 0.5 * s.SampleRate
}
