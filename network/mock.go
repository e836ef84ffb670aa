package network

import (
	"context"

	"github.com/davide3011/TxSmith/tx"
)

// MockNodeService is a test double for NodeService.
// All function fields must be set before the corresponding method is called.
type MockNodeService struct {
	ValidateAddressFn func(ctx context.Context, addr string) (*AddressInfo, error)
	FetchUnspentFn    func(ctx context.Context, scriptPubKeyHex string) ([]*tx.UTXO, error)
	VirtualSizeFn     func(ctx context.Context, rawTx []byte) (int, error)
	BroadcastFn       func(ctx context.Context, rawTx []byte) (string, error)
	EstimateFeeRateFn func(ctx context.Context, confTarget int) (float64, error)
	ConfirmationsFn   func(ctx context.Context, txid string) (int64, error)
	BlockCountFn      func(ctx context.Context) (int64, error)
}

var _ NodeService = (*MockNodeService)(nil)

func (m *MockNodeService) ValidateAddress(ctx context.Context, addr string) (*AddressInfo, error) {
	return m.ValidateAddressFn(ctx, addr)
}
func (m *MockNodeService) FetchUnspent(ctx context.Context, scriptPubKeyHex string) ([]*tx.UTXO, error) {
	return m.FetchUnspentFn(ctx, scriptPubKeyHex)
}
func (m *MockNodeService) VirtualSize(ctx context.Context, rawTx []byte) (int, error) {
	return m.VirtualSizeFn(ctx, rawTx)
}
func (m *MockNodeService) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	return m.BroadcastFn(ctx, rawTx)
}
func (m *MockNodeService) EstimateFeeRate(ctx context.Context, confTarget int) (float64, error) {
	return m.EstimateFeeRateFn(ctx, confTarget)
}
func (m *MockNodeService) Confirmations(ctx context.Context, txid string) (int64, error) {
	return m.ConfirmationsFn(ctx, txid)
}
func (m *MockNodeService) BlockCount(ctx context.Context) (int64, error) {
	return m.BlockCountFn(ctx)
}
