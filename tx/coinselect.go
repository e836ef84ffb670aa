package tx

import (
	"fmt"
	"math"
	"sort"

	"github.com/davide3011/TxSmith/txscript"
)

// Serialized size constants for pre-selection fee estimation: the fixed
// transaction overhead (version, counts, locktime) and a worst-case legacy
// output. Input weights come from the script-type templates.
const (
	txOverheadSize = 10
	outputSize     = 34

	// selectionOutputs assumes destination plus change, the worst case
	// for the estimate.
	selectionOutputs = 2
)

// SelectUTXOs chooses inputs covering sendAmount plus an estimated fee at
// feeRate. Selection is purely value-driven: candidates are taken greedily in
// descending value order until the running total reaches the target. The fee
// estimate grows with each input added, so the target is re-evaluated as the
// set grows.
//
// Callers must pre-filter outpoints already spent by pending mempool
// transactions; the selector does not know about them.
//
// Returns the selected UTXOs (a new slice; the input is not reordered) and
// their total value. ErrInsufficientFunds when the candidates are exhausted
// first.
func SelectUTXOs(available []*UTXO, sendAmount uint64, feeRate float64) ([]*UTXO, uint64, error) {
	if feeRate <= 0 || math.IsNaN(feeRate) || math.IsInf(feeRate, 0) {
		return nil, 0, fmt.Errorf("%w: %v sat/vB", ErrInvalidFeeRate, feeRate)
	}

	ordered := make([]*UTXO, len(available))
	copy(ordered, available)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Amount > ordered[j].Amount
	})

	var (
		selected    []*UTXO
		total       uint64
		inputWeight int
	)
	for _, u := range ordered {
		if err := u.validate(); err != nil {
			return nil, 0, err
		}
		selected = append(selected, u)
		total += u.Amount
		inputWeight += weightFor(u.ScriptPubKey)

		estFee := estimateFee(inputWeight, feeRate)
		if total >= sendAmount+estFee {
			return selected, total, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %d sat available across %d utxos, need %d sat plus fees",
		ErrInsufficientFunds, total, len(ordered), sendAmount)
}

// estimateFee returns ceil(size × rate) for a transaction with the given
// accumulated input weight and the worst-case output count.
func estimateFee(inputWeight int, feeRate float64) uint64 {
	size := txOverheadSize + inputWeight + selectionOutputs*outputSize
	return uint64(math.Ceil(float64(size) * feeRate))
}

// weightFor maps a locking script to its worst-case input weight. Unknown
// scripts fall back to the heaviest supported type so the estimate never
// undershoots.
func weightFor(lockingScript []byte) int {
	st, err := txscript.Classify(lockingScript)
	if err != nil {
		return txscript.InputWeight(txscript.TypeP2PKH)
	}
	return txscript.InputWeight(st)
}
