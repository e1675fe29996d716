package effectchain

import "github.com/cwbudde/algo-fxrack/dsp/core"

// Runtime is the contract every effect instance in the chain satisfies.
// Prepare may allocate; Process and Reset run on the audio goroutine and
// must not.
type Runtime interface {
	Prepare(spec core.ProcessSpec) error
	Process(block core.Block)
	Reset()
}

// ParameterApplier pushes the current parameter values into the effect
// instances. The chain calls it once at the start of every block.
type ParameterApplier interface {
	ApplyParameters()
}

// ApplierFunc adapts a plain function to ParameterApplier.
type ApplierFunc func()

// ApplyParameters calls f.
func (f ApplierFunc) ApplyParameters() { f() }
