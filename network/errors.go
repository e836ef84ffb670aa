package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the RPC credentials were rejected.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrInvalidResponse indicates a malformed or unexpected node response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrInvalidAddress indicates the node reports the address as invalid.
	ErrInvalidAddress = errors.New("network: invalid address")

	// ErrScanFailed indicates the UTXO-set scan did not complete.
	ErrScanFailed = errors.New("network: utxo scan failed")

	// ErrBroadcastRejected indicates the node rejected the transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrFeeEstimateUnavailable indicates the node has no fee estimate for
	// the requested confirmation target.
	ErrFeeEstimateUnavailable = errors.New("network: fee estimate unavailable")

	// ErrTxNotFound indicates the node knows nothing about the requested
	// transaction, neither in the mempool nor on chain.
	ErrTxNotFound = errors.New("network: transaction not found")
)
