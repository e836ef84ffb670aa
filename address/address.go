// Package address decodes and classifies Bitcoin addresses for the
// orchestration layer. The engine itself never sees addresses, only locking
// scripts; this package is the boundary where one becomes the other.
package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"

	"github.com/davide3011/TxSmith/primitives"
	"github.com/davide3011/TxSmith/txscript"
)

// Base58Check version bytes for P2PKH addresses.
const (
	MainNetP2PKH byte = 0x00 // addresses starting with 1
	TestNetP2PKH byte = 0x6f // addresses starting with m or n
)

// Address is a decoded P2PKH address: its network version byte and the
// 20-byte public key hash it commits to.
type Address struct {
	Version    byte
	PubKeyHash []byte
}

// Decode parses a Base58Check address string. Segwit (bech32) addresses are
// recognized and reported as unsupported rather than invalid; everything
// else that fails the checksum or carries an unknown version is invalid.
func Decode(addr string) (*Address, error) {
	lower := strings.ToLower(addr)
	for _, hrp := range []string{"bc1", "tb1", "bcrt1"} {
		if strings.HasPrefix(lower, hrp) {
			return nil, fmt.Errorf("%w: segwit address %q", ErrUnsupportedType, addr)
		}
	}

	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, addr, err)
	}
	if version != MainNetP2PKH && version != TestNetP2PKH {
		return nil, fmt.Errorf("%w: version byte 0x%02x", ErrUnsupportedType, version)
	}
	if len(payload) != primitives.Hash160Len {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d",
			ErrInvalidAddress, len(payload), primitives.Hash160Len)
	}
	return &Address{Version: version, PubKeyHash: payload}, nil
}

// Encode returns the Base58Check string for a 20-byte public key hash under
// the given version byte.
func Encode(pubKeyHash []byte, version byte) (string, error) {
	if len(pubKeyHash) != primitives.Hash160Len {
		return "", fmt.Errorf("%w: hash is %d bytes, want %d",
			ErrInvalidAddress, len(pubKeyHash), primitives.Hash160Len)
	}
	return base58.CheckEncode(pubKeyHash, version), nil
}

// FromPubKey returns the P2PKH address of a SEC-encoded public key.
func FromPubKey(pubKey []byte, version byte) (string, error) {
	if len(pubKey) != txscript.CompressedPubKeyLen && len(pubKey) != txscript.UncompressedPubKeyLen {
		return "", fmt.Errorf("%w: pubkey is %d bytes", ErrInvalidAddress, len(pubKey))
	}
	return Encode(primitives.Hash160(pubKey), version)
}

// LockingScript returns the P2PKH locking script paying to the address.
func (a *Address) LockingScript() ([]byte, error) {
	return txscript.Lock(txscript.TypeP2PKH, a.PubKeyHash)
}

// TestNet reports whether the address carries a testnet/regtest version byte.
func (a *Address) TestNet() bool {
	return a.Version == TestNetP2PKH
}
