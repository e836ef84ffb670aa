package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/davide3011/TxSmith/address"
	"github.com/davide3011/TxSmith/network"
	"github.com/davide3011/TxSmith/primitives"
	"github.com/davide3011/TxSmith/spentstore"
	"github.com/davide3011/TxSmith/tx"
	"github.com/davide3011/TxSmith/wallet"
)

// sendRequest collects everything one payment needs beyond the node and the
// spent journal.
type sendRequest struct {
	Wallet     *wallet.KeyMaterial
	To         string
	Amount     uint64
	FeeRate    float64 // explicit rate in sat/vB; 0 asks the node
	ConfTarget int
	Fallback   float64 // rate used when the node has no estimate
	Broadcast  bool
}

// sendOutcome reports what the send flow produced.
type sendOutcome struct {
	Sender   string
	FeeRate  float64
	Selected []*tx.UTXO
	Result   *tx.Result
	TxID     string // display order
	SentID   string // node-reported txid, set only after broadcast
}

// send runs one payment end to end: prune the spent journal, validate the
// destination, gather and filter UTXOs, select coins, build and sign, and
// optionally broadcast.
func send(ctx context.Context, node network.NodeService, store *spentstore.Store, req *sendRequest) (*sendOutcome, error) {
	sender, err := req.Wallet.Address()
	if err != nil {
		return nil, err
	}
	log.Debugf("Sending from %s", sender)

	if err := pruneJournal(ctx, node, store); err != nil {
		return nil, err
	}

	destInfo, err := node.ValidateAddress(ctx, req.To)
	if err != nil {
		return nil, err
	}
	destScript, err := hex.DecodeString(destInfo.ScriptPubKey)
	if err != nil {
		return nil, fmt.Errorf("destination script: %w", err)
	}

	senderAddr, err := address.Decode(sender)
	if err != nil {
		return nil, err
	}
	senderScript, err := senderAddr.LockingScript()
	if err != nil {
		return nil, err
	}

	utxos, err := node.FetchUnspent(ctx, hex.EncodeToString(senderScript))
	if err != nil {
		return nil, err
	}
	available, err := store.Filter(utxos)
	if err != nil {
		return nil, err
	}

	var balance uint64
	for _, u := range available {
		balance += u.Amount
	}
	log.Infof("Balance: %d sat across %d UTXOs", balance, len(available))
	if balance == 0 {
		return nil, errors.New("no spendable UTXOs")
	}

	feeRate, err := resolveFeeRate(ctx, node, req)
	if err != nil {
		return nil, err
	}
	log.Infof("Fee rate: %.3f sat/vB", feeRate)

	selected, selectedTotal, err := tx.SelectUTXOs(available, req.Amount, feeRate)
	if err != nil {
		return nil, err
	}
	log.Debugf("Selected %d inputs totaling %d sat", len(selected), selectedTotal)

	result, err := tx.Build(ctx, &tx.BuildParams{
		UTXOs:        selected,
		SendAmount:   req.Amount,
		DestScript:   destScript,
		ChangeScript: senderScript,
		FeeRate:      feeRate,
		Key:          req.Wallet.Key,
		PubKey:       req.Wallet.PubKeyBytes(),
		Sizer:        network.NodeSizer{Node: node},
	})
	if err != nil {
		return nil, err
	}

	outcome := &sendOutcome{
		Sender:   sender,
		FeeRate:  feeRate,
		Selected: selected,
		Result:   result,
		TxID:     primitives.TxIDToDisplay(result.TxID),
	}
	if !req.Broadcast {
		return outcome, nil
	}

	sentID, err := node.Broadcast(ctx, result.RawTx)
	if err != nil {
		return nil, err
	}
	outcome.SentID = sentID
	if err := store.MarkSpent(selected, sentID); err != nil {
		log.Warnf("Broadcast succeeded but journaling spent coins failed: %v", err)
	}
	return outcome, nil
}

// pruneJournal drops journal entries whose spending transaction has either
// confirmed (the node's scan no longer returns those outpoints) or vanished
// from the node entirely (the coins are spendable again). Entries for
// transactions still in the mempool stay put.
func pruneJournal(ctx context.Context, node network.NodeService, store *spentstore.Store) error {
	spenders, err := store.Spenders()
	if err != nil {
		return err
	}
	for _, txid := range spenders {
		depth, err := node.Confirmations(ctx, txid)
		if err != nil {
			if !errors.Is(err, network.ErrTxNotFound) {
				return err
			}
		} else if depth == 0 {
			continue
		}
		removed, err := store.Remove(txid)
		if err != nil {
			return err
		}
		log.Debugf("Pruned %d journaled outpoints spent by %s", removed, txid)
	}
	return nil
}

// resolveFeeRate prefers the explicit rate, then the node's estimate, then
// the configured fallback rate.
func resolveFeeRate(ctx context.Context, node network.NodeService, req *sendRequest) (float64, error) {
	if req.FeeRate > 0 {
		return req.FeeRate, nil
	}
	rate, err := node.EstimateFeeRate(ctx, req.ConfTarget)
	if err != nil {
		if errors.Is(err, network.ErrFeeEstimateUnavailable) {
			log.Warnf("Node has no fee estimate, using configured %.3f sat/vB", req.Fallback)
			return req.Fallback, nil
		}
		return 0, err
	}
	return rate, nil
}
