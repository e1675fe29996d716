package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/core"
)

func ExampleNewProcessSpec() {
	spec := core.NewProcessSpec(
		core.WithSampleRate(44100),
		core.WithMaxBlockSize(256),
		core.WithNumChannels(2),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", spec.SampleRate, spec.MaxBlockSize, spec.NumChannels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}
