// Package tx implements manual construction and signing of legacy Bitcoin
// transactions: raw byte serialization, the pre-segwit sighash algorithm,
// DER signature encoding with low-S normalization, greedy coin selection,
// and the fee/size fixed-point loop that produces the final signed bytes.
package tx

import (
	"fmt"

	"github.com/davide3011/TxSmith/primitives"
)

const (
	// TxVersion is the transaction version the engine emits.
	TxVersion uint32 = 1

	// LockTime is always zero; the engine never time-locks a payment.
	LockTime uint32 = 0

	// SequenceFinal disables relative locktime and opts out of RBF
	// signaling on every input.
	SequenceFinal uint32 = 0xffffffff

	// SighashAll commits the signature to all inputs and outputs. It is
	// the only sighash type the engine supports. The 4-byte little-endian
	// form terminates the preimage; the single-byte form is appended to
	// the DER signature. The two are distinct fields of the protocol.
	SighashAll uint32 = 0x01

	// DustLimit is the minimum change value worth creating, in satoshis.
	// Change below it is left to the fee rather than emitted.
	DustLimit uint64 = 546
)

// UTXO is an unspent transaction output the engine can spend. Identity is
// (TxID, Vout); the struct is treated as immutable once fetched.
type UTXO struct {
	TxID         []byte // 32 bytes, little-endian wire order
	Vout         uint32
	Amount       uint64 // satoshis
	ScriptPubKey []byte // locking script of the output
}

// validate checks the fields a spend depends on.
func (u *UTXO) validate() error {
	if u == nil {
		return fmt.Errorf("%w: utxo", ErrNilParam)
	}
	if len(u.TxID) != primitives.HashLen {
		return fmt.Errorf("%w: txid is %d bytes, want %d", ErrInvalidUTXO, len(u.TxID), primitives.HashLen)
	}
	if len(u.ScriptPubKey) == 0 {
		return fmt.Errorf("%w: empty scriptPubKey", ErrInvalidUTXO)
	}
	if u.Amount == 0 {
		return fmt.Errorf("%w: zero amount", ErrInvalidUTXO)
	}
	return nil
}

// Output is a transaction output: a value and the locking script that must be
// satisfied to spend it.
type Output struct {
	Satoshis      uint64
	LockingScript []byte
}
