package effectchain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvable is the panic value when an order names an effect
	// with no registered instance.
	ErrUnresolvable = errors.New("effectchain: effect has no instance")

	errDuplicateInstance = errors.New("effectchain: instance already registered")
	errNilInstance       = errors.New("effectchain: nil instance")
)

// Instances maps each effect kind to the one stateful object that runs it.
type Instances struct {
	slots [NumEffects]Runtime
}

// Register binds rt to id.
func (in *Instances) Register(id EffectID, rt Runtime) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownEffect, int32(id))
	}

	if rt == nil {
		return fmt.Errorf("%w: %s", errNilInstance, id)
	}

	if in.slots[id] != nil {
		return fmt.Errorf("%w: %s", errDuplicateInstance, id)
	}

	in.slots[id] = rt

	return nil
}

// MustRegister is like Register but panics on error.
func (in *Instances) MustRegister(id EffectID, rt Runtime) {
	err := in.Register(id, rt)
	if err != nil {
		panic(err.Error())
	}
}

// Lookup returns the instance for id, or nil.
func (in *Instances) Lookup(id EffectID) Runtime {
	if !id.Valid() {
		return nil
	}

	return in.slots[id]
}

// Complete reports an error naming the first effect kind with no instance.
func (in *Instances) Complete() error {
	for id := range EffectID(NumEffects) {
		if in.slots[id] == nil {
			return fmt.Errorf("%w: %s", ErrUnresolvable, id)
		}
	}

	return nil
}

// Resolve fills dst with the instance for each slot of order. Sentinel
// slots resolve to nil. It panics with ErrUnresolvable if a slot names an
// unknown effect or one with no instance; orders are validated before they
// reach the audio goroutine, so this signals a broken invariant.
func Resolve(order Order, in *Instances, dst *[NumEffects]Runtime) {
	for slot, id := range order {
		if id == EndOfList {
			dst[slot] = nil
			continue
		}

		rt := in.Lookup(id)
		if rt == nil {
			panic(fmt.Errorf("%w: slot %d holds %s", ErrUnresolvable, slot, id))
		}

		dst[slot] = rt
	}
}
