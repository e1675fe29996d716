// Package analyzer measures the processed output of the rack: per-channel
// peak and RMS levels and a windowed FFT magnitude spectrum.
//
// [Analyzer.Process] runs on the audio goroutine. It publishes levels
// through atomic words and hands full analysis frames to the control side
// through a pair of single-producer/single-consumer rings: filled frames
// travel audio to control, consumed frames travel back. No frame memory is
// allocated or shared after Prepare; when the control side falls behind,
// the audio side drops frames and counts them.
package analyzer
