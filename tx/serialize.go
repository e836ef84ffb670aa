package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/davide3011/TxSmith/primitives"
)

// appendOutput serializes one output: value (8 bytes LE) followed by the
// varint-prefixed locking script.
func appendOutput(dst []byte, out Output) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, out.Satoshis)
	dst = primitives.AppendVarInt(dst, uint64(len(out.LockingScript)))
	return append(dst, out.LockingScript...)
}

// appendOutputs serializes the varint count followed by every output.
func appendOutputs(dst []byte, outputs []Output) []byte {
	dst = primitives.AppendVarInt(dst, uint64(len(outputs)))
	for _, out := range outputs {
		dst = appendOutput(dst, out)
	}
	return dst
}

// appendOutpoint serializes a previous-output reference: txid in wire order
// followed by the output index (4 bytes LE).
func appendOutpoint(dst []byte, u *UTXO) []byte {
	dst = append(dst, u.TxID...)
	return binary.LittleEndian.AppendUint32(dst, u.Vout)
}

// Serialize assembles the final raw transaction from the inputs, their
// unlocking scripts (one per input, same order), and the outputs.
func Serialize(inputs []*UTXO, unlockingScripts [][]byte, outputs []Output) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no inputs", ErrNilParam)
	}
	if len(unlockingScripts) != len(inputs) {
		return nil, fmt.Errorf("%w: %d unlocking scripts for %d inputs",
			ErrNilParam, len(unlockingScripts), len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: no outputs", ErrNilParam)
	}

	raw := binary.LittleEndian.AppendUint32(nil, TxVersion)
	raw = primitives.AppendVarInt(raw, uint64(len(inputs)))
	for i, in := range inputs {
		raw = appendOutpoint(raw, in)
		raw = primitives.AppendVarInt(raw, uint64(len(unlockingScripts[i])))
		raw = append(raw, unlockingScripts[i]...)
		raw = binary.LittleEndian.AppendUint32(raw, SequenceFinal)
	}
	raw = appendOutputs(raw, outputs)
	raw = binary.LittleEndian.AppendUint32(raw, LockTime)
	return raw, nil
}

// ComputeTxID returns the transaction ID of serialized transaction bytes in
// wire order. Display form is primitives.TxIDToDisplay of the result.
func ComputeTxID(rawTx []byte) []byte {
	return primitives.DoubleHash(rawTx)
}
