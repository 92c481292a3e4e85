package arch

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_JSON(t *testing.T) {
	signer := testPubkey(1)

	msg, err := NewMessage(
		[]Pubkey{signer},
		NewInstruction(testPubkey(2), []byte{0, 255}, NewReadonlyAccountMeta(signer, true)),
	)
	require.NoError(t, err)

	var sig Signature
	sig[0] = 7

	txn := NewTransaction(DefaultTransactionVersion, msg, sig)

	encoded, err := json.Marshal(txn)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &generic))

	assert.EqualValues(t, 0, generic["version"])

	signatures := generic["signatures"].([]interface{})
	require.Len(t, signatures, 1)
	require.Len(t, signatures[0].([]interface{}), SignatureSize)
	assert.EqualValues(t, 7, signatures[0].([]interface{})[0])

	message := generic["message"].(map[string]interface{})
	require.Len(t, message["signers"].([]interface{}), 1)
	require.Len(t, message["signers"].([]interface{})[0].([]interface{}), PubkeySize)

	ix := message["instructions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, []interface{}{float64(0), float64(255)}, ix["data"])
	assert.Len(t, ix["program_id"].([]interface{}), PubkeySize)

	account := ix["accounts"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, account["is_signer"])
	assert.Equal(t, false, account["is_writable"])

	var decoded Transaction
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, txn, decoded)
}

func TestByteArray_Unmarshal(t *testing.T) {
	var b byteArray
	require.NoError(t, json.Unmarshal([]byte("[1,2,3]"), &b))
	assert.Equal(t, byteArray{1, 2, 3}, b)

	err := json.Unmarshal([]byte("[256]"), &b)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "out of range"))

	assert.Error(t, json.Unmarshal([]byte(`"AQID"`), &b))
}

func TestSignatureFromBytes(t *testing.T) {
	_, err := SignatureFromBytes(make([]byte, 63))
	assert.Error(t, err)

	raw := make([]byte, SignatureSize)
	raw[63] = 9
	sig, err := SignatureFromBytes(raw)
	require.NoError(t, err)
	assert.EqualValues(t, 9, sig[63])
}
