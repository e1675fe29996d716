package core

import (
	"errors"
	"testing"
)

func TestNewProcessSpec(t *testing.T) {
	spec := NewProcessSpec(WithSampleRate(96000), WithMaxBlockSize(2048), WithNumChannels(1))
	if spec.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", spec.SampleRate)
	}
	if spec.MaxBlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", spec.MaxBlockSize)
	}
	if spec.NumChannels != 1 {
		t.Fatalf("channels = %d, want 1", spec.NumChannels)
	}
	if spec.Nyquist() != 48000 {
		t.Fatalf("nyquist = %v, want 48000", spec.Nyquist())
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	spec := NewProcessSpec(WithSampleRate(0), WithMaxBlockSize(-1), WithNumChannels(0))
	if spec != DefaultProcessSpec() {
		t.Fatalf("spec = %#v, want %#v", spec, DefaultProcessSpec())
	}
}

func TestProcessSpecValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec ProcessSpec
		ok   bool
	}{
		{name: "default", spec: DefaultProcessSpec(), ok: true},
		{name: "zero rate", spec: ProcessSpec{SampleRate: 0, MaxBlockSize: 64, NumChannels: 2}},
		{name: "zero block", spec: ProcessSpec{SampleRate: 44100, MaxBlockSize: 0, NumChannels: 2}},
		{name: "zero channels", spec: ProcessSpec{SampleRate: 44100, MaxBlockSize: 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.spec.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("error = %v, want ErrInvalidSpec", err)
			}
		})
	}
}
