// Package state serialises the processor state: the processing order as a
// fixed-size binary record and the combined container that carries it next
// to every parameter value.
//
// Container layout, all integers little-endian:
//
//	"FXRK"
//	u16 version length, version (semver)
//	u32 parameter count, then per parameter: u16 name length, name, f64 value
//	u32 blob count, then per blob: u16 key length, key, u32 length, data
package state
