package network

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/davide3011/TxSmith/primitives"
	"github.com/davide3011/TxSmith/tx"
)

// Compile-time interface check.
var _ NodeService = (*RPCClient)(nil)

// btcToSat converts a BTC float64 amount (as the RPC node returns values) to
// satoshis, rounding to dodge float truncation.
func btcToSat(btc float64) uint64 {
	return uint64(math.Round(btc * 1e8))
}

// validateAddressResult maps the validateaddress response fields we read.
type validateAddressResult struct {
	IsValid      bool   `json:"isvalid"`
	Address      string `json:"address"`
	ScriptPubKey string `json:"scriptPubKey"`
}

// ValidateAddress asks the node to validate addr and returns its locking
// script. An address the node rejects returns ErrInvalidAddress.
func (c *RPCClient) ValidateAddress(ctx context.Context, addr string) (*AddressInfo, error) {
	var result validateAddressResult
	if err := c.Call(ctx, "validateaddress", []interface{}{addr}, &result); err != nil {
		return nil, err
	}
	if !result.IsValid {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return &AddressInfo{
		Address:      result.Address,
		ScriptPubKey: result.ScriptPubKey,
		IsValid:      true,
	}, nil
}

// scanTxOutSetResult maps the scantxoutset response fields we read.
type scanTxOutSetResult struct {
	Success  bool `json:"success"`
	Unspents []struct {
		TxID         string  `json:"txid"`
		Vout         uint32  `json:"vout"`
		ScriptPubKey string  `json:"scriptPubKey"`
		Amount       float64 `json:"amount"`
	} `json:"unspents"`
}

// rawTransactionResult maps the verbose getrawtransaction fields we read.
type rawTransactionResult struct {
	Confirmations int64 `json:"confirmations"`
	Vin           []struct {
		TxID string `json:"txid"`
		Vout uint32 `json:"vout"`
	} `json:"vin"`
	Vout []struct {
		Value        float64 `json:"value"`
		N            uint32  `json:"n"`
		ScriptPubKey struct {
			Hex string `json:"hex"`
		} `json:"scriptPubKey"`
	} `json:"vout"`
}

type outpoint struct {
	txid string
	vout uint32
}

// FetchUnspent returns every spendable output paying to scriptPubKeyHex.
// It scans the confirmed UTXO set with a raw() descriptor, adds unconfirmed
// outputs found in the mempool, and drops any output already spent by a
// pending mempool transaction — spending one of those would be a double
// spend from the node's point of view.
func (c *RPCClient) FetchUnspent(ctx context.Context, scriptPubKeyHex string) ([]*tx.UTXO, error) {
	script, err := hex.DecodeString(scriptPubKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: scriptPubKey hex: %w", ErrInvalidAddress, err)
	}

	var scan scanTxOutSetResult
	desc := fmt.Sprintf("raw(%s)", scriptPubKeyHex)
	params := []interface{}{"start", []interface{}{map[string]interface{}{"desc": desc}}}
	if err := c.Call(ctx, "scantxoutset", params, &scan); err != nil {
		return nil, err
	}
	if !scan.Success {
		return nil, fmt.Errorf("%w: node reported failure", ErrScanFailed)
	}

	type candidate struct {
		op     outpoint
		amount uint64
	}
	var candidates []candidate
	for _, u := range scan.Unspents {
		candidates = append(candidates, candidate{
			op:     outpoint{txid: u.TxID, vout: u.Vout},
			amount: btcToSat(u.Amount),
		})
	}

	// One pass over the mempool: collect outpoints spent by pending
	// transactions and outputs paying to our script that are not yet
	// confirmed.
	var mempool []string
	if err := c.Call(ctx, "getrawmempool", nil, &mempool); err != nil {
		return nil, err
	}

	spent := make(map[outpoint]bool)
	for _, txid := range mempool {
		var raw rawTransactionResult
		if err := c.Call(ctx, "getrawtransaction", []interface{}{txid, true}, &raw); err != nil {
			return nil, err
		}
		for _, vin := range raw.Vin {
			spent[outpoint{txid: vin.TxID, vout: vin.Vout}] = true
		}
		for _, vout := range raw.Vout {
			if vout.ScriptPubKey.Hex != scriptPubKeyHex {
				continue
			}
			candidates = append(candidates, candidate{
				op:     outpoint{txid: txid, vout: vout.N},
				amount: btcToSat(vout.Value),
			})
		}
	}

	utxos := make([]*tx.UTXO, 0, len(candidates))
	for _, cand := range candidates {
		if spent[cand.op] {
			continue
		}
		wireID, err := primitives.TxIDToWire(cand.op.txid)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		utxos = append(utxos, &tx.UTXO{
			TxID:         wireID,
			Vout:         cand.op.vout,
			Amount:       cand.amount,
			ScriptPubKey: script,
		})
	}
	return utxos, nil
}

// decodeRawTransactionResult maps the decoderawtransaction fields we read.
type decodeRawTransactionResult struct {
	VSize int `json:"vsize"`
}

// VirtualSize asks the node to decode the transaction and returns its vsize.
// A decode rejection surfaces as an error for the engine to classify.
func (c *RPCClient) VirtualSize(ctx context.Context, rawTx []byte) (int, error) {
	var result decodeRawTransactionResult
	if err := c.Call(ctx, "decoderawtransaction", []interface{}{hex.EncodeToString(rawTx)}, &result); err != nil {
		return 0, err
	}
	if result.VSize <= 0 {
		return 0, fmt.Errorf("%w: vsize %d", ErrInvalidResponse, result.VSize)
	}
	return result.VSize, nil
}

// Broadcast submits the signed transaction via sendrawtransaction and
// returns the txid the node reports (display order).
func (c *RPCClient) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", []interface{}{hex.EncodeToString(rawTx)}, &txid); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBroadcastRejected, err)
	}
	return txid, nil
}

// estimateSmartFeeResult maps the estimatesmartfee fields we read. FeeRate
// is BTC per kvB; nil when the node has no estimate.
type estimateSmartFeeResult struct {
	FeeRate *float64 `json:"feerate"`
}

// EstimateFeeRate converts the node's estimatesmartfee answer to sat/vB.
// Nodes without fee history (fresh regtest chains) return no estimate; that
// surfaces as ErrFeeEstimateUnavailable for the caller to fall back on.
func (c *RPCClient) EstimateFeeRate(ctx context.Context, confTarget int) (float64, error) {
	var result estimateSmartFeeResult
	if err := c.Call(ctx, "estimatesmartfee", []interface{}{confTarget}, &result); err != nil {
		return 0, err
	}
	if result.FeeRate == nil {
		return 0, fmt.Errorf("%w: no estimate for %d blocks", ErrFeeEstimateUnavailable, confTarget)
	}
	// BTC/kvB → sat/vB: 1 BTC = 1e8 sat, 1 kvB = 1000 vB.
	return *result.FeeRate * 1e8 / 1000, nil
}

// Core's error code for a transaction absent from both the mempool and the
// chain.
const rpcCodeNoSuchTx = -5

// Confirmations returns how deep the transaction is: 0 while it sits in the
// mempool, its block depth once mined. A transaction the node has dropped
// entirely returns ErrTxNotFound.
func (c *RPCClient) Confirmations(ctx context.Context, txid string) (int64, error) {
	var raw rawTransactionResult
	if err := c.Call(ctx, "getrawtransaction", []interface{}{txid, true}, &raw); err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == rpcCodeNoSuchTx {
			return 0, fmt.Errorf("%w: %s", ErrTxNotFound, txid)
		}
		return 0, err
	}
	return raw.Confirmations, nil
}

// BlockCount returns the node's current block height.
func (c *RPCClient) BlockCount(ctx context.Context) (int64, error) {
	var height int64
	if err := c.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}
