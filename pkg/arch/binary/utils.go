// Package binary holds fixed-width little-endian helpers used by the account
// and instruction codecs. Every helper advances offset by the number of bytes
// it consumed, so callers can walk a buffer field by field.
package binary

import (
	"encoding/binary"
)

// Key32Size is the size of a serialized account key.
const Key32Size = 32

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst[:Key32Size], src)
	*offset += Key32Size
}

// PutFixedBytes copies src into a size byte field, zero padding short input
// and truncating long input.
func PutFixedBytes(dst []byte, src []byte, size int, offset *int) {
	n := copy(dst[:size], src)
	for i := n; i < size; i++ {
		dst[i] = 0
	}
	*offset += size
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func PutBool(dst []byte, v bool, offset *int) {
	var b uint8
	if v {
		b = 1
	}
	PutUint8(dst, b, offset)
}

func GetKey32(src []byte, dst *[Key32Size]byte, offset *int) {
	copy(dst[:], src[:Key32Size])
	*offset += Key32Size
}

func GetFixedBytes(src []byte, dst *[]byte, size int, offset *int) {
	*dst = make([]byte, size)
	copy(*dst, src[:size])
	*offset += size
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src)
	*offset += 4
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}

func GetBool(src []byte, dst *bool, offset *int) {
	*dst = src[0] != 0
	*offset += 1
}
