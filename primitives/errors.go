package primitives

import "errors"

var (
	// ErrInvalidVarInt indicates a truncated or non-canonical varint encoding.
	ErrInvalidVarInt = errors.New("primitives: invalid varint")

	// ErrInvalidTxID indicates a transaction ID that is not 32 bytes of hex.
	ErrInvalidTxID = errors.New("primitives: invalid transaction id")
)
