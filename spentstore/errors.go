package spentstore

import "errors"

// ErrInvalidOutpoint indicates an outpoint with a malformed txid.
var ErrInvalidOutpoint = errors.New("spentstore: invalid outpoint")
