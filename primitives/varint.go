package primitives

import (
	"encoding/binary"
	"fmt"
)

// Varint tag bytes for the 2-, 4-, and 8-byte encodings.
const (
	varIntTag16 = 0xfd
	varIntTag32 = 0xfe
	varIntTag64 = 0xff
)

// AppendVarInt appends the Bitcoin variable-length encoding of n to dst and
// returns the extended slice. Values below 0xFD take one byte; larger values
// take a tag byte followed by 2, 4, or 8 little-endian bytes.
func AppendVarInt(dst []byte, n uint64) []byte {
	switch {
	case n < varIntTag16:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, varIntTag16)
		return binary.LittleEndian.AppendUint16(dst, uint16(n))
	case n <= 0xffffffff:
		dst = append(dst, varIntTag32)
		return binary.LittleEndian.AppendUint32(dst, uint32(n))
	default:
		dst = append(dst, varIntTag64)
		return binary.LittleEndian.AppendUint64(dst, n)
	}
}

// EncodeVarInt returns the variable-length encoding of n.
func EncodeVarInt(n uint64) []byte {
	return AppendVarInt(make([]byte, 0, 9), n)
}

// DecodeVarInt decodes a varint from the start of b, returning the value and
// the number of bytes consumed. Truncated input and non-canonical encodings
// (a wide form used for a value that fits a narrower one) are rejected.
func DecodeVarInt(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("%w: empty input", ErrInvalidVarInt)
	}
	switch tag := b[0]; tag {
	case varIntTag16:
		if len(b) < 3 {
			return 0, 0, fmt.Errorf("%w: truncated 2-byte varint", ErrInvalidVarInt)
		}
		n := uint64(binary.LittleEndian.Uint16(b[1:3]))
		if n < varIntTag16 {
			return 0, 0, fmt.Errorf("%w: non-canonical encoding of %d", ErrInvalidVarInt, n)
		}
		return n, 3, nil
	case varIntTag32:
		if len(b) < 5 {
			return 0, 0, fmt.Errorf("%w: truncated 4-byte varint", ErrInvalidVarInt)
		}
		n := uint64(binary.LittleEndian.Uint32(b[1:5]))
		if n <= 0xffff {
			return 0, 0, fmt.Errorf("%w: non-canonical encoding of %d", ErrInvalidVarInt, n)
		}
		return n, 5, nil
	case varIntTag64:
		if len(b) < 9 {
			return 0, 0, fmt.Errorf("%w: truncated 8-byte varint", ErrInvalidVarInt)
		}
		n := binary.LittleEndian.Uint64(b[1:9])
		if n <= 0xffffffff {
			return 0, 0, fmt.Errorf("%w: non-canonical encoding of %d", ErrInvalidVarInt, n)
		}
		return n, 9, nil
	default:
		return uint64(b[0]), 1, nil
	}
}
