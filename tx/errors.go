package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInvalidUTXO indicates an unspendable UTXO description.
	ErrInvalidUTXO = errors.New("tx: invalid utxo")

	// ErrInsufficientFunds indicates the available inputs cannot cover the
	// send amount plus the fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrSigningFailed indicates the ECDSA operation itself failed. This is
	// a violated cryptographic invariant; callers should abort the run.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrIncompleteSignature indicates the assembled transaction was
	// rejected by the downstream decoder. Recoverable at the caller.
	ErrIncompleteSignature = errors.New("tx: incomplete signature")

	// ErrFeeNotConverged indicates the fee/size loop exhausted its
	// iteration budget without reaching a fixed point.
	ErrFeeNotConverged = errors.New("tx: fee did not converge")

	// ErrInvalidFeeRate indicates a zero or negative fee rate.
	ErrInvalidFeeRate = errors.New("tx: invalid fee rate")
)
