package modulation

import (
	"github.com/cwbudde/algo-vecmath"
)

// dryWet blends an unprocessed copy of a channel back into the processed
// signal. The dry buffers are sized once in prepare.
type dryWet struct {
	dry [][]float64
}

func (m *dryWet) prepare(channels, maxBlockSize int) {
	m.dry = make([][]float64, channels)
	for ch := range m.dry {
		m.dry[ch] = make([]float64, maxBlockSize)
	}
}

// capacity is the largest segment push/mix can handle in one call.
func (m *dryWet) capacity() int {
	if len(m.dry) == 0 {
		return 0
	}

	return len(m.dry[0])
}

func (m *dryWet) push(ch int, src []float64) {
	copy(m.dry[ch], src)
}

// mix computes wet*mix + dry*(1-mix) into wet.
func (m *dryWet) mix(ch int, wet []float64, mix float64) {
	dry := m.dry[ch][:len(wet)]

	vecmath.ScaleBlock(wet, wet, mix)
	vecmath.ScaleBlock(dry, dry, 1-mix)
	vecmath.AddBlockInPlace(wet, dry)
}
