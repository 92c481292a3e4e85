package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0xab}, Key32Size)

	buf := make([]byte, Key32Size+8+4+1+1+5)

	var offset int
	PutKey32(buf[offset:], key, &offset)
	PutUint64(buf[offset:], 0x0102030405060708, &offset)
	PutUint32(buf[offset:], 0x0a0b0c0d, &offset)
	PutUint8(buf[offset:], 7, &offset)
	PutBool(buf[offset:], true, &offset)
	PutFixedBytes(buf[offset:], []byte("abc"), 5, &offset)
	assert.Equal(t, len(buf), offset)

	// Little endian.
	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf[Key32Size:Key32Size+8])
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0}, buf[len(buf)-5:])

	var (
		actualKey   [Key32Size]byte
		actualU64   uint64
		actualU32   uint32
		actualU8    uint8
		actualBool  bool
		actualFixed []byte
	)

	offset = 0
	GetKey32(buf[offset:], &actualKey, &offset)
	GetUint64(buf[offset:], &actualU64, &offset)
	GetUint32(buf[offset:], &actualU32, &offset)
	GetUint8(buf[offset:], &actualU8, &offset)
	GetBool(buf[offset:], &actualBool, &offset)
	GetFixedBytes(buf[offset:], &actualFixed, 5, &offset)
	assert.Equal(t, len(buf), offset)

	assert.Equal(t, key, actualKey[:])
	assert.EqualValues(t, 0x0102030405060708, actualU64)
	assert.EqualValues(t, 0x0a0b0c0d, actualU32)
	assert.EqualValues(t, 7, actualU8)
	assert.True(t, actualBool)
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0}, actualFixed)
}

func TestPutFixedBytes_Truncates(t *testing.T) {
	buf := bytes.Repeat([]byte{0xff}, 6)

	var offset int
	PutFixedBytes(buf, []byte("abcdefgh"), 4, &offset)
	assert.Equal(t, 4, offset)
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 0xff, 0xff}, buf)
}
