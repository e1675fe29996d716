// Package plugin is the host-facing effect rack: it owns the parameter
// store, one instance of every effect, the chain executor and an optional
// output analyzer.
//
// A host calls [Processor.Prepare] on every format change and
// [Processor.ProcessBlock] from its audio goroutine. Everything else
// (parameter writes, [Processor.PushOrder], [Processor.State] and
// [Processor.SetState]) belongs to a single control goroutine.
package plugin
