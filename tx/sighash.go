package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/davide3011/TxSmith/primitives"
)

// signatureHashPreimage builds the legacy SIGHASH_ALL preimage for the input
// at signIndex:
//
//	version ‖ varint(nIn) ‖ per input (txid ‖ vout ‖ scriptCode ‖ sequence) ‖
//	varint(nOut) ‖ outputs ‖ locktime ‖ sighash type (4 bytes LE)
//
// The scriptCode of the input being signed is its own previous locking
// script, varint length-prefixed; every other input carries an empty script
// (varint 0). The preimage therefore depends on signIndex, so a signature
// computed for one input is never valid for another.
func signatureHashPreimage(inputs []*UTXO, outputs []Output, signIndex int) ([]byte, error) {
	if signIndex < 0 || signIndex >= len(inputs) {
		return nil, fmt.Errorf("%w: sign index %d of %d inputs", ErrInvalidUTXO, signIndex, len(inputs))
	}

	pre := binary.LittleEndian.AppendUint32(nil, TxVersion)
	pre = primitives.AppendVarInt(pre, uint64(len(inputs)))
	for i, in := range inputs {
		pre = appendOutpoint(pre, in)
		if i == signIndex {
			pre = primitives.AppendVarInt(pre, uint64(len(in.ScriptPubKey)))
			pre = append(pre, in.ScriptPubKey...)
		} else {
			pre = primitives.AppendVarInt(pre, 0)
		}
		pre = binary.LittleEndian.AppendUint32(pre, SequenceFinal)
	}
	pre = appendOutputs(pre, outputs)
	pre = binary.LittleEndian.AppendUint32(pre, LockTime)
	pre = binary.LittleEndian.AppendUint32(pre, SighashAll)
	return pre, nil
}

// SignatureHash returns the 32-byte digest to sign for the input at
// signIndex: DoubleHash of the legacy SIGHASH_ALL preimage over the given
// input and output sets. The digest must be recomputed per input.
func SignatureHash(inputs []*UTXO, outputs []Output, signIndex int) ([]byte, error) {
	pre, err := signatureHashPreimage(inputs, outputs, signIndex)
	if err != nil {
		return nil, err
	}
	return primitives.DoubleHash(pre), nil
}
