package arch

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	signer := testPubkey(1)
	program := testPubkey(2)
	account := testPubkey(3)

	ix := NewInstruction(
		program,
		[]byte{0, 1, 2},
		NewReadonlyAccountMeta(signer, true),
		NewAccountMeta(account, false),
	)

	msg, err := NewMessage([]Pubkey{signer}, ix)
	require.NoError(t, err)
	assert.Equal(t, []Pubkey{signer}, msg.Signers)
	require.Len(t, msg.Instructions, 1)
	assert.Equal(t, ix, msg.Instructions[0])
}

func TestNewMessage_DanglingSigner(t *testing.T) {
	signer := testPubkey(1)
	other := testPubkey(4)

	ix := NewInstruction(
		testPubkey(2),
		nil,
		NewReadonlyAccountMeta(signer, true),
		NewAccountMeta(other, true),
	)

	_, err := NewMessage([]Pubkey{signer}, ix)
	assert.True(t, errors.Is(err, ErrDanglingSigner))

	_, err = NewMessage([]Pubkey{signer, other}, ix)
	assert.NoError(t, err)
}

func TestNewMessage_InvalidSigners(t *testing.T) {
	signer := testPubkey(1)

	_, err := NewMessage(nil)
	assert.Equal(t, ErrNoSigners, err)

	_, err = NewMessage([]Pubkey{signer, signer})
	assert.True(t, errors.Is(err, ErrDuplicateSigner))
}

func TestMessage_Marshal(t *testing.T) {
	signer := testPubkey(1)
	program := testPubkey(2)
	account := testPubkey(3)

	msg, err := NewMessage(
		[]Pubkey{signer},
		NewInstruction(
			program,
			[]byte{0xaa, 0xbb},
			NewReadonlyAccountMeta(signer, true),
			NewAccountMeta(account, false),
		),
	)
	require.NoError(t, err)

	var expected []byte
	expected = append(expected, 1)
	expected = append(expected, signer[:]...)
	expected = append(expected, 1)
	expected = append(expected, program[:]...)
	expected = append(expected, 2)
	expected = append(expected, signer[:]...)
	expected = append(expected, 1, 0)
	expected = append(expected, account[:]...)
	expected = append(expected, 0, 1)
	expected = append(expected, 2, 0, 0, 0, 0, 0, 0, 0)
	expected = append(expected, 0xaa, 0xbb)

	assert.Equal(t, expected, msg.Marshal())
}

func TestMessage_Hash(t *testing.T) {
	signer := testPubkey(1)

	msg, err := NewMessage(
		[]Pubkey{signer},
		NewInstruction(testPubkey(2), []byte{1, 2, 3}, NewReadonlyAccountMeta(signer, true)),
	)
	require.NoError(t, err)

	first := sha256.Sum256(msg.Marshal())
	second := sha256.Sum256([]byte(hex.EncodeToString(first[:])))

	hash := msg.Hash()
	assert.Len(t, hash, HashSize)
	assert.Equal(t, hex.EncodeToString(second[:]), string(hash))
	assert.Equal(t, hash, msg.Hash())

	// Any change to the instruction data changes the hash.
	msg.Instructions[0].Data = []byte{1, 2, 4}
	assert.NotEqual(t, hash, msg.Hash())
}

func testPubkey(b byte) Pubkey {
	var pub Pubkey
	copy(pub[:], bytes.Repeat([]byte{b}, PubkeySize))
	return pub
}
