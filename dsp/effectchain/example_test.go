package effectchain_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
)

type gain float64

func (g gain) Prepare(core.ProcessSpec) error { return nil }
func (g gain) Reset() {}

func (g gain) Process(block core.Block) {
	for _, ch := range block {
		for i := range ch {
			ch[i] *= float64(g)
		}
	}
}

func ExampleChain() {
	var in effectchain.Instances
	for id := range effectchain.EffectID(effectchain.NumEffects) {
		in.MustRegister(id, gain(1))
	}

	chain, err := effectchain.New(&in)
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = chain.Prepare(core.NewProcessSpec())

	order, _ := effectchain.ParseOrder("filter,chorus")
	chain.PushOrder(order)
	chain.Process(core.NewBlock(2, 64))

	fmt.Println(chain.CurrentOrder())
	// Output:
	// filter,chorus,-,-,-
}
