package state

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
)

// OrderSize is the encoded size of an order in bytes.
const OrderSize = effectchain.NumEffects * 4

// ErrCorruptState is returned for persisted data that cannot be decoded.
var ErrCorruptState = errors.New("state: corrupt state")

// EncodeOrder writes o as NumEffects little-endian int32 values.
func EncodeOrder(o effectchain.Order) []byte {
	b := make([]byte, OrderSize)
	for i, id := range o {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(id))
	}

	return b
}

// DecodeOrder reads an order written by EncodeOrder. The length must be
// exactly OrderSize and every value an identifier or the sentinel.
func DecodeOrder(b []byte) (effectchain.Order, error) {
	if len(b) != OrderSize {
		return effectchain.Order{}, fmt.Errorf("%w: order is %d bytes, want %d", ErrCorruptState, len(b), OrderSize)
	}

	var o effectchain.Order

	for i := range o {
		id := effectchain.EffectID(int32(binary.LittleEndian.Uint32(b[4*i:])))
		if id < effectchain.Phase || id > effectchain.EndOfList {
			return effectchain.Order{}, fmt.Errorf("%w: slot %d holds %s", ErrCorruptState, i, id)
		}

		o[i] = id
	}

	return o, nil
}
