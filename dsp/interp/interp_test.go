package interp

import (
	"errors"
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	t.Parallel()

	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestHermite4HitsEndpoints(t *testing.T) {
	t.Parallel()

	if got := Hermite4(0, 3, -2, 5, 7); got != -2 {
		t.Fatalf("t=0: got %v want -2", got)
	}

	if got := Hermite4(1, 3, -2, 5, 7); math.Abs(got-5) > 1e-12 {
		t.Fatalf("t=1: got %v want 5", got)
	}
}

func TestModeInterpolate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		want float64
	}{
		{mode: Hermite, want: Hermite4(0.25, 1, 2, 4, 8)},
		{mode: Linear, want: 2.5},
		{mode: None, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			t.Parallel()

			got := tt.mode.Interpolate(0.25, 1, 2, 4, 8)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{Hermite, Linear, None} {
		got, err := ParseMode(" " + m.String() + " ")
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}

	_, err := ParseMode("sinc")
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}

	if got := Mode(9).String(); got != "Mode(9)" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestTaps(t *testing.T) {
	t.Parallel()

	if n, o := Hermite.Taps(); n != 1 || o != 2 {
		t.Fatalf("hermite taps: %d %d", n, o)
	}

	if n, o := Linear.Taps(); n != 0 || o != 1 {
		t.Fatalf("linear taps: %d %d", n, o)
	}

	if n, o := None.Taps(); n != 0 || o != 0 {
		t.Fatalf("none taps: %d %d", n, o)
	}
}
