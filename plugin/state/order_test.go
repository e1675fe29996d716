package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
)

func TestEncodeOrderLayout(t *testing.T) {
	t.Parallel()

	o := effectchain.Order{
		effectchain.GeneralFilter, effectchain.Phase, effectchain.EndOfList,
		effectchain.EndOfList, effectchain.EndOfList,
	}

	want := []byte{
		4, 0, 0, 0,
		0, 0, 0, 0,
		5, 0, 0, 0,
		5, 0, 0, 0,
		5, 0, 0, 0,
	}

	if got := EncodeOrder(o); !bytes.Equal(got, want) {
		t.Fatalf("EncodeOrder = %v, want %v", got, want)
	}
}

func TestOrderRoundTrip(t *testing.T) {
	t.Parallel()

	orders := []effectchain.Order{
		effectchain.DefaultOrder(),
		effectchain.EmptyOrder(),
		{effectchain.Chorus, effectchain.Phase, effectchain.OverDrive, effectchain.LadderFilter, effectchain.GeneralFilter},
		{effectchain.LadderFilter, effectchain.EndOfList, effectchain.EndOfList, effectchain.EndOfList, effectchain.EndOfList},
	}

	for _, o := range orders {
		got, err := DecodeOrder(EncodeOrder(o))
		if err != nil {
			t.Fatalf("%s: %v", o, err)
		}

		if !got.Equal(o) {
			t.Fatalf("round trip %s -> %s", o, got)
		}
	}
}

func TestDecodeOrderRejectsCorruptData(t *testing.T) {
	t.Parallel()

	valid := EncodeOrder(effectchain.DefaultOrder())

	outOfRange := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(outOfRange[8:], 6)

	negative := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(negative[0:], 0xFFFFFFFF)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "short", data: valid[:OrderSize-1]},
		{name: "long", data: append(bytes.Clone(valid), 0)},
		{name: "beyond sentinel", data: outOfRange},
		{name: "negative", data: negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeOrder(tt.data)
			if !errors.Is(err, ErrCorruptState) {
				t.Fatalf("expected ErrCorruptState, got %v", err)
			}

			if got != (effectchain.Order{}) {
				t.Fatalf("corrupt decode returned %v", got)
			}
		})
	}
}
