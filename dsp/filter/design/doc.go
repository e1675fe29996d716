// Package design computes biquad coefficients from musical parameters.
//
// The designers follow the RBJ audio EQ cookbook. [Design] dispatches on a
// [Mode] and is what the rack's general filter calls once per block; it
// clamps its inputs so any parameter combination yields a stable section.
package design
