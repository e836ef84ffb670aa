package network

import (
	"context"

	"github.com/davide3011/TxSmith/tx"
)

// NodeService is the node-facing contract the orchestration layer and the
// engine consume. The engine itself only ever sees VirtualSize (through
// NodeSizer); the rest feeds the send flow around it.
type NodeService interface {
	// ValidateAddress asks the node whether addr is valid and returns its
	// locking script.
	ValidateAddress(ctx context.Context, addr string) (*AddressInfo, error)

	// FetchUnspent returns the spendable outputs paying to the given
	// locking script (hex), confirmed and unconfirmed, with outputs
	// already spent by pending mempool transactions excluded.
	FetchUnspent(ctx context.Context, scriptPubKeyHex string) ([]*tx.UTXO, error)

	// VirtualSize returns the node's authoritative virtual size for a
	// serialized transaction.
	VirtualSize(ctx context.Context, rawTx []byte) (int, error)

	// Broadcast submits a signed transaction and returns its txid in
	// display order.
	Broadcast(ctx context.Context, rawTx []byte) (string, error)

	// EstimateFeeRate returns the node's suggested fee rate in sat/vB for
	// confirmation within confTarget blocks.
	EstimateFeeRate(ctx context.Context, confTarget int) (float64, error)

	// Confirmations returns a transaction's depth: 0 in the mempool,
	// ErrTxNotFound when the node no longer knows it.
	Confirmations(ctx context.Context, txid string) (int64, error)

	// BlockCount returns the current chain height, used as a liveness
	// check at startup.
	BlockCount(ctx context.Context) (int64, error)
}

// AddressInfo is the subset of the node's validateaddress response the send
// flow needs.
type AddressInfo struct {
	Address      string
	ScriptPubKey string // hex locking script
	IsValid      bool
}

// NodeSizer adapts a NodeService to the engine's Sizer interface, making the
// node's decoder the authority on virtual size inside the convergence loop.
type NodeSizer struct {
	Node NodeService
}

// Compile-time interface check.
var _ tx.Sizer = NodeSizer{}

// VirtualSize implements tx.Sizer.
func (s NodeSizer) VirtualSize(ctx context.Context, rawTx []byte) (int, error) {
	return s.Node.VirtualSize(ctx, rawTx)
}
