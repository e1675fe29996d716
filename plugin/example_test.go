package plugin_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
	"github.com/cwbudde/algo-fxrack/plugin"
)

func ExampleProcessor_PushOrder() {
	p, err := plugin.New()
	if err != nil {
		panic(err)
	}

	err = p.Prepare(48000, 512, 2)
	if err != nil {
		panic(err)
	}

	order, err := effectchain.ParseOrder("chorus,phase,filter")
	if err != nil {
		panic(err)
	}

	fmt.Println(p.PushOrder(order))
	fmt.Println(p.CurrentOrder())

	p.ProcessBlock(core.NewBlock(2, 512))
	fmt.Println(p.CurrentOrder())
	// Output:
	// true
	// phase,chorus,overdrive,ladder,-
	// chorus,phase,filter,-,-
}

func ExampleProcessor_SetState() {
	src, _ := plugin.New()
	_ = src.Parameters().SetValue(plugin.ParamLadderCutoff, 800)

	data, err := src.State()
	if err != nil {
		panic(err)
	}

	dst, _ := plugin.New()

	err = dst.SetState(data)
	if err != nil {
		panic(err)
	}

	fmt.Println(dst.Parameters().MustBindFloat(plugin.ParamLadderCutoff).Text())
	fmt.Println(dst.Stats().DroppedPushes)
	// Output:
	// 800.00
	// 0
}
