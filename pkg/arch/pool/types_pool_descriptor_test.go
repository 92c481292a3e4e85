package pool

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bqpools/pool-client/pkg/arch"
)

const exampleAssetPubkey = "57b5d5642018e666dd181dcf153a9ea5530ea0fe88d4067a47ffd4a73a8f6d07"

func exampleDescriptor() PoolDescriptor {
	return PoolDescriptor{
		Name:          "BQ Pool",
		RiskType:      0,
		APY:           3,
		MinPeriod:     120,
		AssetPubkey:   arch.MustPubkeyFromHex(exampleAssetPubkey),
		AssetType:     1,
		InvestmentArm: 10,
	}
}

func TestCreatePoolInstructionData_ExactLayout(t *testing.T) {
	desc := exampleDescriptor()

	data := PrependDiscriminant(desc.Marshal(), InstructionTypeCreatePool)
	require.Len(t, data, 91)

	asset, err := hex.DecodeString(exampleAssetPubkey)
	require.NoError(t, err)

	var expected []byte
	expected = append(expected, 0)                                  // discriminant
	expected = append(expected, []byte("BQ Pool")...)               // pool_name
	expected = append(expected, make([]byte, 32-len("BQ Pool"))...) // pool_name padding
	expected = append(expected, 0)                                  // risk_type
	expected = append(expected, 3, 0, 0, 0, 0, 0, 0, 0)             // apy
	expected = append(expected, 120, 0, 0, 0, 0, 0, 0, 0)           // min_period
	expected = append(expected, asset...)                           // asset_pubkey
	expected = append(expected, 1)                                  // asset_type
	expected = append(expected, 10, 0, 0, 0, 0, 0, 0, 0)            // investment_arm

	assert.Equal(t, expected, data)
}

func TestPoolDescriptor_RoundTrip(t *testing.T) {
	for _, desc := range []PoolDescriptor{
		exampleDescriptor(),
		{},
		{
			Name:          strings.Repeat("x", MaxPoolNameLength),
			RiskType:      255,
			APY:           ^uint64(0),
			MinPeriod:     ^uint64(0),
			AssetPubkey:   arch.Pubkey{0xff},
			AssetType:     255,
			InvestmentArm: ^uint64(0),
		},
		{Name: "płynność"},
	} {
		encoded := desc.Marshal()
		require.Len(t, encoded, PoolDescriptorSize)

		var decoded PoolDescriptor
		require.NoError(t, decoded.Unmarshal(encoded))
		assert.Equal(t, desc, decoded)
	}
}

func TestPoolDescriptor_Truncation(t *testing.T) {
	long := strings.Repeat("a", MaxPoolNameLength) + "overflow"

	desc := PoolDescriptor{Name: long}
	encoded := desc.Marshal()
	require.Len(t, encoded, PoolDescriptorSize)
	assert.Equal(t, bytes.Repeat([]byte("a"), MaxPoolNameLength), encoded[:MaxPoolNameLength])

	var decoded PoolDescriptor
	require.NoError(t, decoded.Unmarshal(encoded))
	assert.Equal(t, long[:MaxPoolNameLength], decoded.Name)

	// Deterministic.
	assert.Equal(t, encoded, desc.Marshal())
}

func TestPoolDescriptor_UnmarshalInvalid(t *testing.T) {
	var desc PoolDescriptor
	assert.Equal(t, ErrInvalidInstructionData, desc.Unmarshal(make([]byte, PoolDescriptorSize-1)))
	assert.Equal(t, ErrInvalidInstructionData, desc.Unmarshal(make([]byte, PoolDescriptorSize+1)))
}

func TestPrependDiscriminant(t *testing.T) {
	payload := []byte{1, 2, 3}

	data := PrependDiscriminant(payload, InstructionType(7))
	assert.Equal(t, []byte{7, 1, 2, 3}, data)
	assert.Equal(t, []byte{1, 2, 3}, payload)

	data[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, payload)
}
