package address

import "errors"

var (
	// ErrInvalidAddress indicates a malformed address (bad checksum, bad
	// length, undecodable characters).
	ErrInvalidAddress = errors.New("address: invalid address")

	// ErrUnsupportedType indicates a well-formed address of a type the
	// legacy engine cannot pay to (segwit, unknown version byte).
	ErrUnsupportedType = errors.New("address: unsupported address type")
)
