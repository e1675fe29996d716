// Package cpu reports the vector extensions of the host processor. The
// command-line host prints them at startup next to the stream format.
package cpu

import (
	"strings"
	"sync"
)

// Level is the widest vector extension available.
type Level int

const (
	LevelGeneric Level = iota
	LevelSSE2
	LevelAVX
	LevelAVX2
	LevelAVX512
	LevelNEON
)

var levelNames = [...]string{
	LevelGeneric: "generic",
	LevelSSE2:    "sse2",
	LevelAVX:     "avx",
	LevelAVX2:    "avx2",
	LevelAVX512:  "avx512",
	LevelNEON:    "neon",
}

func (l Level) String() string {
	if l < LevelGeneric || int(l) >= len(levelNames) {
		return "unknown"
	}

	return levelNames[l]
}

// Features describes the detected extensions.
type Features struct {
	Architecture string

	SSE2   bool
	AVX    bool
	AVX2   bool
	FMA    bool
	AVX512 bool
	NEON   bool
}

var detected = sync.OnceValue(detect)

// Detect returns the features of the running processor. Detection runs
// once; later calls return the cached result.
func Detect() Features {
	return detected()
}

// Level returns the widest extension in f.
func (f Features) Level() Level {
	switch {
	case f.AVX512:
		return LevelAVX512
	case f.AVX2:
		return LevelAVX2
	case f.AVX:
		return LevelAVX
	case f.SSE2:
		return LevelSSE2
	case f.NEON:
		return LevelNEON
	default:
		return LevelGeneric
	}
}

// Extensions lists the names of the available extensions.
func (f Features) Extensions() []string {
	var names []string

	for _, e := range []struct {
		ok   bool
		name string
	}{
		{f.SSE2, "sse2"},
		{f.AVX, "avx"},
		{f.AVX2, "avx2"},
		{f.FMA, "fma"},
		{f.AVX512, "avx512"},
		{f.NEON, "neon"},
	} {
		if e.ok {
			names = append(names, e.name)
		}
	}

	return names
}

// String formats f as "arch: ext ext ...".
func (f Features) String() string {
	ext := f.Extensions()
	if len(ext) == 0 {
		return f.Architecture + ": generic"
	}

	return f.Architecture + ": " + strings.Join(ext, " ")
}
