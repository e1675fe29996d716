// Package ladder implements a multi-mode transistor-ladder filter.
//
// The model is a four-pole cascade of one-pole sections with a tanh
// saturator on the input and in the resonance feedback path. Mixing the
// five internal taps with a fixed matrix selects one of six responses:
// 12 or 24 dB/oct lowpass, highpass and bandpass.
//
// Drive raises the level into the input saturator while a compensating
// gain keeps the perceived loudness roughly constant. With the cutoff at
// its highest setting the filter becomes a plain saturation stage, which
// is how the rack builds its overdrive.
package ladder
