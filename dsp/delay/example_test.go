package delay_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/delay"
)

func ExampleDelay_Process() {
	d, err := delay.NewDelay(delay.WithDelayMs(2))
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = d.Prepare(core.NewProcessSpec(core.WithSampleRate(1000), core.WithNumChannels(1)))

	block := core.Block{{1, 0, 0, 0}}
	d.Process(block)

	fmt.Println(block[0])
	// Output:
	// [0 0 1 0]
}
