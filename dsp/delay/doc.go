// Package delay provides a circular delay line with fractional reads and a
// multi-channel delay processor built on it.
package delay
