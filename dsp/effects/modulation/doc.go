// Package modulation provides the LFO-driven effects of the rack.
//
// Included processors:
//   - Phaser: six-stage allpass cascade swept around a centre frequency.
//   - Chorus: single-tap modulated delay with feedback.
//
// Both are multi-channel. Each channel keeps its own filter or delay state
// while the LFO is shared, so a stereo signal stays phase-coherent. All
// buffers are allocated in Prepare; the setters and Process never allocate.
package modulation
