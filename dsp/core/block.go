package core

// Block is a non-interleaved audio block: one slice per channel, all of the
// same length. Processors read and overwrite it in place.
type Block [][]float64

// NewBlock allocates a zeroed block.
func NewBlock(channels, samples int) Block {
	if channels <= 0 || samples < 0 {
		return nil
	}

	b := make(Block, channels)
	for ch := range b {
		b[ch] = make([]float64, samples)
	}

	return b
}

// NumChannels returns the number of channels.
func (b Block) NumChannels() int {
	return len(b)
}

// NumSamples returns the length of the first channel, or 0 for an empty block.
func (b Block) NumSamples() int {
	if len(b) == 0 {
		return 0
	}

	return len(b[0])
}

// Clear zeroes every channel.
func (b Block) Clear() {
	for _, ch := range b {
		Zero(ch)
	}
}

// CopyFrom copies src into b channel by channel and returns the number of
// samples copied per channel.
func (b Block) CopyFrom(src Block) int {
	n := 0
	for ch := range b {
		if ch >= len(src) {
			break
		}

		n = copy(b[ch], src[ch])
	}

	return n
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
