package effectchain

import (
	"fmt"
	"strings"
)

// EffectID names one kind of effect the chain can run.
type EffectID int32

// Effect kinds. EndOfList is not an effect: it sizes orders and marks an
// empty slot.
const (
	Phase EffectID = iota
	Chorus
	OverDrive
	LadderFilter
	GeneralFilter
	EndOfList
)

// NumEffects is the number of real effect kinds and the length of an Order.
const NumEffects = int(EndOfList)

var effectNames = [...]string{
	Phase:         "phase",
	Chorus:        "chorus",
	OverDrive:     "overdrive",
	LadderFilter:  "ladder",
	GeneralFilter: "filter",
	EndOfList:     "-",
}

// Valid reports whether id is a real effect kind.
func (id EffectID) Valid() bool {
	return id >= Phase && id < EndOfList
}

// String returns the short name used by ParseOrder.
func (id EffectID) String() string {
	if id < Phase || id > EndOfList {
		return fmt.Sprintf("EffectID(%d)", int32(id))
	}

	return effectNames[id]
}

// ParseEffectID maps a short name back to its identifier. "-" and "end"
// both parse as EndOfList.
func ParseEffectID(name string) (EffectID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "end" {
		return EndOfList, nil
	}

	for id, n := range effectNames {
		if n == name {
			return EffectID(id), nil
		}
	}

	return EndOfList, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}
