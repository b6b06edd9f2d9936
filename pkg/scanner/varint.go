package scanner

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dennwc/varint"
)

var (
	ErrTruncated        = errors.New("input ends inside a value")
	ErrOverflow         = errors.New("varint overflows 64 bits")
	ErrLengthOutOfRange = errors.New("declared length exceeds remaining input")
	ErrUnknownWireType  = errors.New("unknown wire type")
)

// DecodeUvarint reads a base-128 varint starting at off. It returns the
// value and the offset just past it. An input that ends while the
// continuation bit is still set yields ErrTruncated; a value that does not
// fit in 64 bits yields ErrOverflow. On error the returned offset is off.
func DecodeUvarint(buf []byte, off int) (uint64, int, error) {
	if off < 0 || off >= len(buf) {
		return 0, off, ErrTruncated
	}
	v, n := varint.Uvarint(buf[off:])
	switch {
	case n > 0:
		return v, off + n, nil
	case n < 0:
		return 0, off, ErrOverflow
	case len(buf)-off >= varint.MaxLen64:
		// ten continuation bytes already exceed 64 bits, whatever follows
		return 0, off, ErrOverflow
	}
	return 0, off, ErrTruncated
}

// AppendUvarint appends the canonical varint encoding of v to dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	dst = slices.Grow(dst, varint.UvarintSize(v))
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// DecodeLengthDelimited reads a varint length at off followed by that many
// bytes, and returns them as text with invalid UTF-8 dropped.
func DecodeLengthDelimited(buf []byte, off int) (string, int, error) {
	b, next, err := lengthDelimited(buf, off)
	if err != nil {
		return "", off, err
	}
	return lossyString(b), next, nil
}

func lengthDelimited(buf []byte, off int) ([]byte, int, error) {
	n, p, err := DecodeUvarint(buf, off)
	if err != nil {
		return nil, off, err
	}
	if n > uint64(len(buf)-p) {
		return nil, off, ErrLengthOutOfRange
	}
	end := p + int(n)
	return buf[p:end], end, nil
}

func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "")
}
