package tx

import (
	"fmt"
	"math/big"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// halfOrder is floor(N/2) of the secp256k1 group order, the low-S boundary.
var halfOrder = new(big.Int).Rsh(ec.S256().N, 1)

// SignDigest deterministically signs a 32-byte digest (RFC 6979 nonce
// derivation), normalizes the signature to low-S form, and returns the
// DER encoding with the single SIGHASH_ALL byte appended. This is the exact
// byte sequence pushed into an unlocking script.
func SignDigest(priv *ec.PrivateKey, digest []byte) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	sig, err := priv.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive signature component", ErrSigningFailed)
	}
	der := encodeDER(sig.R, normalizeLowS(sig.S))
	return append(der, byte(SighashAll)), nil
}

// normalizeLowS maps s to order−s when s is in the upper half of the group.
// The network rejects high-S signatures as non-standard, so every signature
// leaves the engine in low-S form.
func normalizeLowS(s *big.Int) *big.Int {
	if s.Cmp(halfOrder) > 0 {
		return new(big.Int).Sub(ec.S256().N, s)
	}
	return s
}

// encodeDER encodes (r, s) as a DER SEQUENCE of two INTEGERs. Each integer
// is minimally encoded big-endian, with a leading zero byte when its high
// bit is set so it stays non-negative.
func encodeDER(r, s *big.Int) []byte {
	rb := canonicalInt(r)
	sb := canonicalInt(s)

	out := make([]byte, 0, 6+len(rb)+len(sb))
	out = append(out, 0x30, byte(4+len(rb)+len(sb)))
	out = append(out, 0x02, byte(len(rb)))
	out = append(out, rb...)
	out = append(out, 0x02, byte(len(sb)))
	out = append(out, sb...)
	return out
}

// canonicalInt returns the minimal big-endian encoding of v, padded with a
// zero byte when the most significant bit is set.
func canonicalInt(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		padded := make([]byte, len(b)+1)
		copy(padded[1:], b)
		return padded
	}
	return b
}
