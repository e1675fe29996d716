//go:build arm64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

func detect() Features {
	return Features{
		Architecture: runtime.GOARCH,
		NEON:         cpu.ARM64.HasASIMD,
		FMA:          cpu.ARM64.HasASIMD,
	}
}
