package primitives

import (
	"encoding/hex"
	"fmt"
)

// Transaction IDs are displayed as big-endian hex (the order block explorers
// and RPC nodes print) but serialized little-endian on the wire. Every txid
// field in a raw transaction and in a sighash preimage uses the wire order;
// mixing the two silently references the wrong previous output.

// TxIDToWire converts a displayed transaction ID (64 hex chars, big-endian)
// to its 32-byte little-endian wire representation.
func TxIDToWire(displayHex string) ([]byte, error) {
	raw, err := hex.DecodeString(displayHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTxID, displayHex, err)
	}
	if len(raw) != HashLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidTxID, len(raw), HashLen)
	}
	return reverse(raw), nil
}

// TxIDToDisplay converts a 32-byte wire-order transaction ID to the
// conventional big-endian hex display form.
func TxIDToDisplay(wire []byte) string {
	return hex.EncodeToString(reverse(wire))
}

// reverse returns a reversed copy of b.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
