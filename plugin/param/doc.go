// Package param holds the parameter store of the effect rack.
//
// A [Layout] declares every parameter once, in display order. [NewStore]
// validates it and allocates one handle per parameter; the processor binds
// its handles by name at construction time and reads them once per block.
//
// Values are stored in atomic 64-bit words, so the audio goroutine can read
// a handle while a control goroutine writes it without locks and without
// torn values. Two parameters written together are not updated atomically
// as a pair: a block may observe one new value and one old value.
package param
