package pool

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bqpools/pool-client/pkg/keys"
)

func exampleParams() PoolParams {
	return PoolParams{
		Name:          "BQ Pool",
		RiskType:      "0",
		APY:           "3",
		MinPeriod:     "120",
		AssetPubkey:   exampleAssetPubkey,
		AssetType:     "1",
		InvestmentArm: "10",
	}
}

func TestParsePoolParams(t *testing.T) {
	desc, err := ParsePoolParams(exampleParams())
	require.NoError(t, err)
	assert.Equal(t, exampleDescriptor(), *desc)
}

func TestParsePoolParams_OutOfRange(t *testing.T) {
	for _, mutate := range []func(*PoolParams){
		func(p *PoolParams) { p.RiskType = "256" },
		func(p *PoolParams) { p.RiskType = "-1" },
		func(p *PoolParams) { p.APY = "18446744073709551616" },
		func(p *PoolParams) { p.MinPeriod = "-120" },
		func(p *PoolParams) { p.AssetType = "1000" },
		func(p *PoolParams) { p.InvestmentArm = "ten" },
		func(p *PoolParams) { p.APY = "" },
	} {
		params := exampleParams()
		mutate(&params)

		_, err := ParsePoolParams(params)
		assert.True(t, errors.Is(err, ErrFieldOutOfRange), "%+v", params)
	}
}

func TestParsePoolParams_Name(t *testing.T) {
	params := exampleParams()
	params.Name = strings.Repeat("n", MaxPoolNameLength+1)

	_, err := ParsePoolParams(params)
	assert.True(t, errors.Is(err, ErrInvalidNameLength))

	params.AllowTruncate = true
	desc, err := ParsePoolParams(params)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("n", MaxPoolNameLength), desc.Name)

	params = exampleParams()
	params.Name = strings.Repeat("n", MaxPoolNameLength)
	desc, err = ParsePoolParams(params)
	require.NoError(t, err)
	assert.Equal(t, params.Name, desc.Name)
}

func TestParsePoolParams_AssetPubkey(t *testing.T) {
	params := exampleParams()
	params.AssetPubkey = exampleAssetPubkey[:62]

	_, err := ParsePoolParams(params)
	assert.True(t, errors.Is(err, keys.ErrInvalidKeyLength))
}
