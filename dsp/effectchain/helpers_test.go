package effectchain

import (
	"testing"

	"github.com/cwbudde/algo-fxrack/internal/testutil"
)

// recordingInstances registers one recording stage per effect kind.
func recordingInstances(t *testing.T) (*Instances, [NumEffects]*testutil.Stage, *testutil.Recorder) {
	t.Helper()

	rec := &testutil.Recorder{}

	var (
		in     Instances
		stages [NumEffects]*testutil.Stage
	)

	for id := range EffectID(NumEffects) {
		stages[id] = &testutil.Stage{Name: id.String(), Recorder: rec}

		err := in.Register(id, stages[id])
		if err != nil {
			t.Fatalf("Register(%s) error = %v", id, err)
		}
	}

	return &in, stages, rec
}

// permutations returns every ordering of the real effect kinds.
func permutations() []Order {
	var (
		out  []Order
		walk func(o Order, used [NumEffects]bool, depth int)
	)

	walk = func(o Order, used [NumEffects]bool, depth int) {
		if depth == NumEffects {
			out = append(out, o)
			return
		}

		for id := range EffectID(NumEffects) {
			if used[id] {
				continue
			}

			used[id] = true
			o[depth] = id
			walk(o, used, depth+1)
			used[id] = false
		}
	}

	walk(EmptyOrder(), [NumEffects]bool{}, 0)

	return out
}

func namesOf(o Order) []string {
	var names []string

	for _, id := range o {
		if id != EndOfList {
			names = append(names, id.String())
		}
	}

	return names
}
