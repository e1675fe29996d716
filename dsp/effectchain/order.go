package effectchain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownEffect is returned for identifiers or names outside the
	// known effect kinds.
	ErrUnknownEffect = errors.New("effectchain: unknown effect")
	// ErrDuplicateEffect is returned when an order names an effect twice.
	ErrDuplicateEffect = errors.New("effectchain: duplicate effect in order")
	// ErrOrderLength is returned by ParseOrder for more than NumEffects names.
	ErrOrderLength = errors.New("effectchain: too many effects in order")
)

// Order is the sequence in which effects run. Slots holding EndOfList are
// skipped.
type Order [NumEffects]EffectID

// EmptyOrder returns the order with every slot set to EndOfList. A chain
// never commits it.
func EmptyOrder() Order {
	var o Order
	for i := range o {
		o[i] = EndOfList
	}

	return o
}

// DefaultOrder is the order a new chain starts with: phaser, chorus,
// overdrive, ladder filter. The general filter is not in it.
func DefaultOrder() Order {
	return Order{Phase, Chorus, OverDrive, LadderFilter, EndOfList}
}

// IsEmpty reports whether every slot is EndOfList.
func (o Order) IsEmpty() bool {
	for _, id := range o {
		if id != EndOfList {
			return false
		}
	}

	return true
}

// Equal reports element-wise equality.
func (o Order) Equal(other Order) bool {
	return o == other
}

// Validate checks that every slot holds a known identifier or EndOfList and
// that no effect appears twice.
func (o Order) Validate() error {
	var seen [NumEffects]bool

	for slot, id := range o {
		if id == EndOfList {
			continue
		}

		if !id.Valid() {
			return fmt.Errorf("%w: slot %d holds %d", ErrUnknownEffect, slot, int32(id))
		}

		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateEffect, id)
		}

		seen[id] = true
	}

	return nil
}

// IsPermutation reports whether o names every effect exactly once.
func (o Order) IsPermutation() bool {
	if o.Validate() != nil {
		return false
	}

	for _, id := range o {
		if id == EndOfList {
			return false
		}
	}

	return true
}

// String renders o as comma-separated short names, sentinel slots as "-".
func (o Order) String() string {
	var sb strings.Builder

	for i, id := range o {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(id.String())
	}

	return sb.String()
}

// ParseOrder reads a comma-separated list of effect names such as
// "chorus,phase,overdrive". Missing trailing slots are filled with
// EndOfList. The result is validated.
func ParseOrder(s string) (Order, error) {
	o := EmptyOrder()

	s = strings.TrimSpace(s)
	if s == "" {
		return o, nil
	}

	fields := strings.Split(s, ",")
	if len(fields) > NumEffects {
		return o, fmt.Errorf("%w: %d > %d", ErrOrderLength, len(fields), NumEffects)
	}

	for i, field := range fields {
		id, err := ParseEffectID(field)
		if err != nil {
			return EmptyOrder(), err
		}

		o[i] = id
	}

	err := o.Validate()
	if err != nil {
		return EmptyOrder(), err
	}

	return o, nil
}

// pack encodes o into one word, a byte per slot, so the committed order
// can be published atomically.
func (o Order) pack() uint64 {
	var w uint64
	for i, id := range o {
		w |= uint64(uint8(id)) << (8 * i)
	}

	return w
}

func unpackOrder(w uint64) Order {
	var o Order
	for i := range o {
		o[i] = EffectID(uint8(w >> (8 * i)))
	}

	return o
}
