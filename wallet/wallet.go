// Package wallet handles the sender's key material: WIF encoding and
// decoding, the JSON wallet file, and the encrypted key store.
package wallet

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/btcsuite/btcutil/base58"

	"github.com/davide3011/TxSmith/address"
)

// WIF version bytes.
const (
	MainNetWIF byte = 0x80
	TestNetWIF byte = 0xef
)

const privKeyLen = 32

// KeyMaterial is a private key plus the encoding choices that determine
// which address it spends from.
type KeyMaterial struct {
	Key        *ec.PrivateKey
	Compressed bool
	TestNet    bool
}

// DecodeWIF parses a Base58Check WIF string into key material. The payload
// is version || key(32) with an optional 0x01 suffix marking a compressed
// public key.
func DecodeWIF(wif string) (*KeyMaterial, error) {
	payload, version, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWIF, err)
	}
	if version != MainNetWIF && version != TestNetWIF {
		return nil, fmt.Errorf("%w: version byte 0x%02x", ErrInvalidWIF, version)
	}

	var compressed bool
	switch len(payload) {
	case privKeyLen:
		compressed = false
	case privKeyLen + 1:
		if payload[privKeyLen] != 0x01 {
			return nil, fmt.Errorf("%w: bad compression marker 0x%02x", ErrInvalidWIF, payload[privKeyLen])
		}
		compressed = true
	default:
		return nil, fmt.Errorf("%w: payload is %d bytes", ErrInvalidWIF, len(payload))
	}

	priv, _ := ec.PrivateKeyFromBytes(payload[:privKeyLen])
	return &KeyMaterial{
		Key:        priv,
		Compressed: compressed,
		TestNet:    version == TestNetWIF,
	}, nil
}

// EncodeWIF returns the Base58Check WIF string for the key material.
func (k *KeyMaterial) EncodeWIF() (string, error) {
	if k.Key == nil {
		return "", ErrNoKey
	}
	payload := k.Key.Serialize()
	if len(payload) != privKeyLen {
		return "", fmt.Errorf("%w: key is %d bytes", ErrInvalidWIF, len(payload))
	}
	if k.Compressed {
		payload = append(payload, 0x01)
	}
	version := MainNetWIF
	if k.TestNet {
		version = TestNetWIF
	}
	return base58.CheckEncode(payload, version), nil
}

// PubKeyBytes returns the SEC-encoded public key, honoring the compression
// flag the WIF carried. The flag matters: compressed and uncompressed keys
// hash to different addresses.
func (k *KeyMaterial) PubKeyBytes() []byte {
	pub := k.Key.PubKey()
	if k.Compressed {
		return pub.Compressed()
	}
	return pub.Uncompressed()
}

// Address returns the P2PKH address the key material spends from.
func (k *KeyMaterial) Address() (string, error) {
	version := address.MainNetP2PKH
	if k.TestNet {
		version = address.TestNetP2PKH
	}
	return address.FromPubKey(k.PubKeyBytes(), version)
}
