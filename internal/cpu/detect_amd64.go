//go:build amd64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// SSE2 is part of the amd64 baseline.
func detect() Features {
	return Features{
		Architecture: runtime.GOARCH,
		SSE2:         true,
		AVX:          cpu.X86.HasAVX,
		AVX2:         cpu.X86.HasAVX2,
		FMA:          cpu.X86.HasFMA,
		AVX512:       cpu.X86.HasAVX512F,
	}
}
