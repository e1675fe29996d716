// Package interp provides the fractional-read interpolators used by the
// delay-based blocks of the rack.
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (default for modulated delays)
//
// [Mode] selects between them at run time.
package interp
