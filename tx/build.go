package tx

import (
	"context"
	"fmt"
	"math"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/davide3011/TxSmith/txscript"
)

const (
	// initialFeeGuess seeds the convergence loop. Any small positive value
	// works; the loop replaces it with the measured fee on iteration one.
	initialFeeGuess uint64 = 200

	// DefaultMaxIterations bounds the fee/size fixed-point loop. Signature
	// length varies by at most a byte per input, so convergence normally
	// takes two or three passes.
	DefaultMaxIterations = 40
)

// Sizer measures the virtual size of a serialized transaction. It is the one
// collaborator call inside the convergence loop; implementations may block
// (e.g. a node RPC) and callers control timeouts through ctx.
type Sizer interface {
	VirtualSize(ctx context.Context, rawTx []byte) (int, error)
}

// LocalSizer computes virtual size locally. For the legacy-only transactions
// this engine emits there is no witness discount, so vsize equals the raw
// serialized length.
type LocalSizer struct{}

// VirtualSize implements Sizer.
func (LocalSizer) VirtualSize(_ context.Context, rawTx []byte) (int, error) {
	return len(rawTx), nil
}

// BuildParams describes one payment to assemble and sign.
type BuildParams struct {
	UTXOs         []*UTXO        // inputs to spend, order preserved through signing
	SendAmount    uint64         // satoshis to the destination
	DestScript    []byte         // destination locking script
	ChangeScript  []byte         // change locking script (output omitted below dust)
	FeeRate       float64        // satoshis per virtual byte
	Key           *ec.PrivateKey // signs every input; caller retains ownership
	PubKey        []byte         // SEC encoding pushed in unlock scripts; nil selects compressed
	Sizer         Sizer          // nil selects LocalSizer
	MaxIterations int            // 0 selects DefaultMaxIterations
}

// Result is a fully signed transaction with its converged fee accounting.
type Result struct {
	RawTx      []byte
	TxID       []byte // wire order; display via primitives.TxIDToDisplay
	Fee        uint64 // actual fee: inputs − outputs
	VSize      int
	Change     uint64 // value of the change output, 0 when omitted as dust
	Iterations int
}

// Build runs the fee-convergence loop: draft a skeleton with the current fee
// guess, sign every input against that exact output set, measure the signed
// size, and recompute the fee until the declared fee matches the measured
// size at the requested rate. Each iteration builds a fresh skeleton; nothing
// is mutated across passes.
//
// Failure modes: ErrInsufficientFunds when inputs cannot cover amount+fee,
// ErrFeeNotConverged when the iteration budget runs out, ErrIncompleteSignature
// when the Sizer rejects the assembled transaction, ErrSigningFailed on an
// internal signing fault.
func Build(ctx context.Context, p *BuildParams) (*Result, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	sizer := p.Sizer
	if sizer == nil {
		sizer = LocalSizer{}
	}
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	// The unlock template for each input follows its previous locking
	// script; resolve them once, the scripts never change across passes.
	inputTypes := make([]txscript.ScriptType, len(p.UTXOs))
	var totalIn uint64
	for i, u := range p.UTXOs {
		if err := u.validate(); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		st, err := txscript.Classify(u.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		inputTypes[i] = st
		totalIn += u.Amount
	}
	pubKey := p.PubKey
	if pubKey == nil {
		pubKey = p.Key.PubKey().Compressed()
	}

	fee := initialFeeGuess
	for iter := 1; iter <= maxIter; iter++ {
		if totalIn < p.SendAmount+fee {
			return nil, fmt.Errorf("%w: have %d sat, need %d sat (send %d + fee %d)",
				ErrInsufficientFunds, totalIn, p.SendAmount+fee, p.SendAmount, fee)
		}
		change := totalIn - p.SendAmount - fee

		outputs := []Output{{Satoshis: p.SendAmount, LockingScript: p.DestScript}}
		withChange := change >= DustLimit
		if withChange {
			outputs = append(outputs, Output{Satoshis: change, LockingScript: p.ChangeScript})
		}

		raw, err := signAndAssemble(p.UTXOs, inputTypes, outputs, p.Key, pubKey)
		if err != nil {
			return nil, err
		}

		vsize, err := sizer.VirtualSize(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncompleteSignature, err)
		}

		nextFee := uint64(math.Ceil(float64(vsize) * p.FeeRate))
		if nextFee == fee {
			res := &Result{
				RawTx:      raw,
				TxID:       ComputeTxID(raw),
				Fee:        totalIn - p.SendAmount,
				VSize:      vsize,
				Iterations: iter,
			}
			if withChange {
				res.Fee = fee
				res.Change = change
			}
			return res, nil
		}
		fee = nextFee
	}
	return nil, fmt.Errorf("%w: after %d iterations at %.2f sat/vB", ErrFeeNotConverged, maxIter, p.FeeRate)
}

// signAndAssemble signs every input against the given output set and returns
// the serialized transaction. Signatures are computed in input order; each
// digest commits to the input's own position.
func signAndAssemble(inputs []*UTXO, types []txscript.ScriptType, outputs []Output, key *ec.PrivateKey, pubKey []byte) ([]byte, error) {
	unlocking := make([][]byte, len(inputs))
	for i := range inputs {
		digest, err := SignatureHash(inputs, outputs, i)
		if err != nil {
			return nil, err
		}
		sigWithFlag, err := SignDigest(key, digest)
		if err != nil {
			return nil, err
		}
		unlocking[i], err = txscript.Unlock(types[i], sigWithFlag, pubKey)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}
	return Serialize(inputs, unlocking, outputs)
}

func validateParams(p *BuildParams) error {
	if p == nil {
		return fmt.Errorf("%w: params", ErrNilParam)
	}
	if p.Key == nil {
		return fmt.Errorf("%w: key", ErrNilParam)
	}
	if len(p.UTXOs) == 0 {
		return fmt.Errorf("%w: no inputs", ErrNilParam)
	}
	if len(p.DestScript) == 0 {
		return fmt.Errorf("%w: destination script", ErrNilParam)
	}
	if len(p.ChangeScript) == 0 {
		return fmt.Errorf("%w: change script", ErrNilParam)
	}
	if p.SendAmount == 0 {
		return fmt.Errorf("%w: zero send amount", ErrInvalidUTXO)
	}
	if p.FeeRate <= 0 || math.IsNaN(p.FeeRate) || math.IsInf(p.FeeRate, 0) {
		return fmt.Errorf("%w: %v sat/vB", ErrInvalidFeeRate, p.FeeRate)
	}
	return nil
}
