// Package primitives implements the low-level byte encodings shared by the
// transaction engine: double SHA-256 hashing, hash160, Bitcoin varints, and
// the display/wire byte-order conversion for transaction IDs.
package primitives

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// HashLen is the length of a double-SHA256 digest and of a transaction ID.
const HashLen = 32

// Hash160Len is the length of a RIPEMD160(SHA256(b)) digest.
const Hash160Len = 20

// DoubleHash returns SHA256(SHA256(b)). It is the single hashing primitive
// for both transaction IDs and sighash digests; callers must not compose the
// two rounds themselves.
func DoubleHash(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Hash160 returns RIPEMD160(SHA256(b)), the digest used for P2PKH addresses
// and locking scripts.
func Hash160(b []byte) []byte {
	first := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(first[:])
	return h.Sum(nil)
}
