package ladder

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/internal/testutil"
)

const sampleRate = 48000.0

func prepared(t *testing.T, opts ...Option) *Filter {
	t.Helper()

	f, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = f.Prepare(core.NewProcessSpec(core.WithSampleRate(sampleRate)))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return f
}

// steadyGain runs a tone through f and returns output RMS over input RMS,
// measured on the second half to skip the transient.
func steadyGain(f *Filter, freqHz, amplitude float64) float64 {
	in := testutil.DeterministicSine(freqHz, sampleRate, amplitude, 9600)
	block := testutil.Block(1, in)
	f.Process(block)

	half := len(in) / 2

	return testutil.RMS(block[0][half:]) / testutil.RMS(in[half:])
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	f, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if f.Mode() != LPF12 || f.CutoffHz() != 20000 || f.Resonance() != 0 || f.Drive() != 1 {
		t.Fatalf("defaults = %v %g %g %g", f.Mode(), f.CutoffHz(), f.Resonance(), f.Drive())
	}
}

func TestOptionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{"mode", WithMode(Mode(6))},
		{"cutoff low", WithCutoffHz(10)},
		{"cutoff nan", WithCutoffHz(math.NaN())},
		{"resonance", WithResonance(1.1)},
		{"drive", WithDrive(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := New(tt.opt); !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("New() error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestSettersClamp(t *testing.T) {
	t.Parallel()

	f := prepared(t)

	f.SetCutoffHz(5)
	f.SetResonance(2)
	f.SetDrive(1000)
	f.SetMode(Mode(-1))

	if f.CutoffHz() != 20 || f.Resonance() != 1 || f.Drive() != 100 || f.Mode() != LPF12 {
		t.Fatalf("after clamping: %g %g %g %v", f.CutoffHz(), f.Resonance(), f.Drive(), f.Mode())
	}

	f.SetCutoffHz(math.NaN())

	if f.CutoffHz() != 20 {
		t.Fatalf("NaN cutoff changed value to %g", f.CutoffHz())
	}
}

func TestOpenLowpassPassesLowTone(t *testing.T) {
	t.Parallel()

	g := steadyGain(prepared(t), 100, 0.05)
	if g < 0.7 || g > 1.1 {
		t.Fatalf("open LPF12 gain at 100 Hz = %g, want near unity", g)
	}
}

func TestModesShapeResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     Mode
		cutoffHz float64
		toneHz   float64
		maxGain  float64
	}{
		{"LPF24 rejects highs", LPF24, 200, 10000, 0.01},
		{"LPF12 rejects highs", LPF12, 200, 10000, 0.05},
		{"HPF24 rejects lows", HPF24, 5000, 50, 0.01},
		{"HPF12 rejects lows", HPF12, 5000, 50, 0.05},
		{"BPF24 rejects lows", BPF24, 2000, 30, 0.05},
		{"BPF12 rejects highs", BPF12, 200, 15000, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := prepared(t, WithMode(tt.mode), WithCutoffHz(tt.cutoffHz))
			if g := steadyGain(f, tt.toneHz, 0.1); g > tt.maxGain {
				t.Fatalf("gain = %g, want <= %g", g, tt.maxGain)
			}
		})
	}
}

func TestHighDriveSaturates(t *testing.T) {
	t.Parallel()

	f := prepared(t, WithDrive(100))
	block := testutil.Block(2, testutil.DeterministicSine(200, sampleRate, 0.5, 4800))
	f.Process(block)

	tail := block[0][2400:]
	peak := 0.0

	for _, v := range tail {
		peak = math.Max(peak, math.Abs(v))
	}

	crest := peak / testutil.RMS(tail)
	if crest > 1.3 {
		t.Fatalf("crest factor = %g, want a clipped waveform (< 1.3)", crest)
	}

	if peak > 1.5 {
		t.Fatalf("peak = %g, saturation should bound the output", peak)
	}
}

func TestFullResonanceStaysBounded(t *testing.T) {
	t.Parallel()

	for mode := LPF12; mode < numModes; mode++ {
		f := prepared(t, WithMode(mode), WithResonance(1), WithCutoffHz(1000), WithDrive(20))

		for range 20 {
			block := testutil.Block(2, testutil.DeterministicNoise(4, 1, 512))
			f.Process(block)
			testutil.RequireBlockFinite(t, block)

			for _, v := range block[0] {
				if math.Abs(v) > 120 {
					t.Fatalf("%v: output %g escaped the saturators", mode, v)
				}
			}
		}
	}
}

func TestResetAndChannelIndependence(t *testing.T) {
	t.Parallel()

	f := prepared(t, WithMode(BPF24), WithResonance(0.7), WithCutoffHz(800))
	in := testutil.DeterministicNoise(8, 0.5, 256)

	first := testutil.Block(2, in)
	f.Process(first)
	testutil.RequireSliceNearlyEqual(t, first[1], first[0], 0)

	f.Reset()

	second := testutil.Block(2, in)
	f.Process(second)
	testutil.RequireBlockNearlyEqual(t, second, first, 0)
}

func TestUnpreparedIsPassThrough(t *testing.T) {
	t.Parallel()

	f, _ := New(WithDrive(50))
	block := testutil.Block(2, testutil.DeterministicNoise(2, 1, 32))
	want := testutil.CloneBlock(block)

	f.Process(block)

	testutil.RequireBlockNearlyEqual(t, block, want, 0)
}

func TestModeNames(t *testing.T) {
	t.Parallel()

	for i, name := range ModeNames {
		m, ok := ParseMode(name)
		if !ok || int(m) != i || m.String() != name {
			t.Fatalf("ParseMode(%q) = %v, %v", name, m, ok)
		}
	}

	if _, ok := ParseMode("notch"); ok {
		t.Fatal("ParseMode accepted an unknown name")
	}
}

func TestFastTanh(t *testing.T) {
	t.Parallel()

	for x := -6.0; x <= 6; x += 0.25 {
		got := tanh(x)
		if math.Abs(got-math.Tanh(x)) > 0.05 {
			t.Fatalf("tanh(%g) = %g, want ~%g", x, got, math.Tanh(x))
		}
	}

	if tanh(1e9) > 1 || tanh(-1e9) < -1 {
		t.Fatal("tanh escaped [-1, 1] for large inputs")
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	f := prepared(t)
	block := core.NewBlock(2, 512)

	allocs := testing.AllocsPerRun(20, func() {
		f.SetCutoffHz(1234)
		f.SetDrive(3)
		f.SetMode(HPF24)
		f.Process(block)
	})
	if allocs != 0 {
		t.Fatalf("Process allocated %.1f times per run", allocs)
	}
}

func BenchmarkLadderStereo512(b *testing.B) {
	f, _ := New(WithMode(LPF24), WithResonance(0.5), WithCutoffHz(2000))
	_ = f.Prepare(core.NewProcessSpec())
	block := testutil.Block(2, testutil.DeterministicNoise(1, 0.5, 512))

	b.ReportAllocs()

	for b.Loop() {
		f.Process(block)
	}
}
