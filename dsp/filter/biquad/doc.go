// Package biquad provides second-order IIR sections.
//
// A [Section] runs Direct Form II Transposed over one channel. A [Filter]
// holds one section state per channel behind a shared set of
// [Coefficients], which is how the rack's general filter runs a stereo
// signal. Coefficient design lives in dsp/filter/design.
package biquad
