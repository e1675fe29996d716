package testutil

import (
	"sync"

	"github.com/cwbudde/algo-fxrack/dsp/core"
)

// Recorder collects the names of stages in the order they ran.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends name to the call log.
func (r *Recorder) Record(name string) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset clears the call log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = r.calls[:0]
	r.mu.Unlock()
}

// Stage is an effect stub that records each Process call and scales the
// block by Gain (0 means unity).
type Stage struct {
	Name     string
	Recorder *Recorder
	Gain     float64

	Spec     core.ProcessSpec
	Prepares int
	Resets   int
	Blocks   int
	Fail     error
}

// Prepare records spec. It returns Fail when set.
func (s *Stage) Prepare(spec core.ProcessSpec) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.Spec = spec
	s.Prepares++
	return nil
}

// Process records the call and applies Gain.
func (s *Stage) Process(block core.Block) {
	s.Blocks++
	if s.Recorder != nil {
		s.Recorder.Record(s.Name)
	}
	if s.Gain == 0 {
		return
	}
	for ch := range block {
		for i := range block[ch] {
			block[ch][i] *= s.Gain
		}
	}
}

// Reset counts the call.
func (s *Stage) Reset() {
	s.Resets++
}
