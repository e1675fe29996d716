package analyzer

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fxrack/dsp/core"
)

// Level is the measurement of one channel over the last processed block.
type Level struct {
	Peak float64
	RMS  float64
}

// PeakDB returns the peak in dBFS.
func (l Level) PeakDB() float64 { return core.LinearToDB(l.Peak) }

// RMSDB returns the RMS level in dBFS.
func (l Level) RMSDB() float64 { return core.LinearToDB(l.RMS) }

type channelMeter struct {
	peak atomic.Uint64
	rms  atomic.Uint64
}

func (m *channelMeter) measure(buf []float64) {
	peak := 0.0
	sum := 0.0

	for _, x := range buf {
		a := math.Abs(x)
		if a > peak {
			peak = a
		}

		sum += x * x
	}

	rms := 0.0
	if len(buf) > 0 {
		rms = math.Sqrt(sum / float64(len(buf)))
	}

	m.peak.Store(math.Float64bits(peak))
	m.rms.Store(math.Float64bits(rms))
}

func (m *channelMeter) level() Level {
	return Level{
		Peak: math.Float64frombits(m.peak.Load()),
		RMS:  math.Float64frombits(m.rms.Load()),
	}
}

func (m *channelMeter) reset() {
	m.peak.Store(0)
	m.rms.Store(0)
}
