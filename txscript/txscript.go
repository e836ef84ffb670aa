// Package txscript builds the locking and unlocking scripts for the legacy
// output types the engine can spend: P2PKH and P2PKH's older sibling P2PK.
//
// Each type is described by one entry in a template table (locking script
// builder, unlocking script builder, worst-case input weight). Adding a
// legacy script type means adding one entry, not another build/sign module.
package txscript

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"

	"github.com/davide3011/TxSmith/primitives"
)

// ScriptType tags one of the supported locking script shapes.
type ScriptType int

const (
	// TypeUnknown is the zero value; it matches no template.
	TypeUnknown ScriptType = iota
	// TypeP2PKH pays to a 20-byte public key hash.
	TypeP2PKH
	// TypeP2PK pays directly to a 33- or 65-byte public key.
	TypeP2PK
)

// String returns the conventional name of the script type.
func (t ScriptType) String() string {
	switch t {
	case TypeP2PKH:
		return "p2pkh"
	case TypeP2PK:
		return "p2pk"
	default:
		return "unknown"
	}
}

// Compressed and uncompressed SEC public key lengths.
const (
	CompressedPubKeyLen   = 33
	UncompressedPubKeyLen = 65
)

// template holds everything the engine needs to know about one script type.
type template struct {
	lock func(keyData []byte) ([]byte, error)
	// unlock assembles the scriptSig from a DER signature (sighash flag
	// already appended) and the spender's public key.
	unlock func(sigWithFlag, pubKey []byte) ([]byte, error)
	// inputWeight is the worst-case serialized size of one input of this
	// type (outpoint + scriptSig + sequence), used for fee estimation
	// before the real transaction exists.
	inputWeight int
}

var templates = map[ScriptType]template{
	TypeP2PKH: {lock: lockP2PKH, unlock: unlockP2PKH, inputWeight: 148},
	TypeP2PK:  {lock: lockP2PK, unlock: unlockP2PK, inputWeight: 114},
}

// Lock builds the locking script for the given type. keyData is a 20-byte
// public key hash for P2PKH, or a 33/65-byte SEC public key for P2PK.
func Lock(t ScriptType, keyData []byte) ([]byte, error) {
	tpl, ok := templates[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownScriptType, t)
	}
	return tpl.lock(keyData)
}

// Unlock builds the unlocking script (scriptSig) for the given type from a
// DER-encoded signature carrying its one-byte sighash flag. pubKey is ignored
// for P2PK, whose locking script already embeds the key.
func Unlock(t ScriptType, sigWithFlag, pubKey []byte) ([]byte, error) {
	tpl, ok := templates[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownScriptType, t)
	}
	if len(sigWithFlag) == 0 {
		return nil, ErrEmptySignature
	}
	return tpl.unlock(sigWithFlag, pubKey)
}

// InputWeight returns the worst-case serialized input size for the type,
// or 0 for an unknown type.
func InputWeight(t ScriptType) int {
	return templates[t].inputWeight
}

// Classify recognizes the locking script shapes supported by the engine.
// Scripts that are neither P2PKH nor P2PK return ErrUnknownScriptType.
func Classify(lockingScript []byte) (ScriptType, error) {
	switch {
	case isP2PKH(lockingScript):
		return TypeP2PKH, nil
	case isP2PK(lockingScript):
		return TypeP2PK, nil
	default:
		return TypeUnknown, fmt.Errorf("%w: %d-byte script", ErrUnknownScriptType, len(lockingScript))
	}
}

// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG
func isP2PKH(s []byte) bool {
	return len(s) == 25 &&
		s[0] == script.OpDUP &&
		s[1] == script.OpHASH160 &&
		s[2] == primitives.Hash160Len &&
		s[23] == script.OpEQUALVERIFY &&
		s[24] == script.OpCHECKSIG
}

// <push pubkey> OP_CHECKSIG
func isP2PK(s []byte) bool {
	if len(s) == CompressedPubKeyLen+2 && s[0] == CompressedPubKeyLen {
		return s[CompressedPubKeyLen+1] == script.OpCHECKSIG
	}
	if len(s) == UncompressedPubKeyLen+2 && s[0] == UncompressedPubKeyLen {
		return s[UncompressedPubKeyLen+1] == script.OpCHECKSIG
	}
	return false
}

func lockP2PKH(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != primitives.Hash160Len {
		return nil, fmt.Errorf("%w: P2PKH hash must be %d bytes, got %d",
			ErrInvalidKeyLength, primitives.Hash160Len, len(pubKeyHash))
	}
	s := &script.Script{}
	if err := s.AppendOpcodes(script.OpDUP, script.OpHASH160); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	if err := s.AppendPushData(pubKeyHash); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	if err := s.AppendOpcodes(script.OpEQUALVERIFY, script.OpCHECKSIG); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	return s.Bytes(), nil
}

func lockP2PK(pubKey []byte) ([]byte, error) {
	if len(pubKey) != CompressedPubKeyLen && len(pubKey) != UncompressedPubKeyLen {
		return nil, fmt.Errorf("%w: P2PK key must be %d or %d bytes, got %d",
			ErrInvalidKeyLength, CompressedPubKeyLen, UncompressedPubKeyLen, len(pubKey))
	}
	s := &script.Script{}
	if err := s.AppendPushData(pubKey); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	if err := s.AppendOpcodes(script.OpCHECKSIG); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	return s.Bytes(), nil
}

func unlockP2PKH(sigWithFlag, pubKey []byte) ([]byte, error) {
	if len(pubKey) != CompressedPubKeyLen && len(pubKey) != UncompressedPubKeyLen {
		return nil, fmt.Errorf("%w: pubkey must be %d or %d bytes, got %d",
			ErrInvalidKeyLength, CompressedPubKeyLen, UncompressedPubKeyLen, len(pubKey))
	}
	s := &script.Script{}
	if err := s.AppendPushData(sigWithFlag); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	if err := s.AppendPushData(pubKey); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	return s.Bytes(), nil
}

func unlockP2PK(sigWithFlag, _ []byte) ([]byte, error) {
	s := &script.Script{}
	if err := s.AppendPushData(sigWithFlag); err != nil {
		return nil, fmt.Errorf("txscript: %w", err)
	}
	return s.Bytes(), nil
}
