package pool

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/arch"
)

// PoolParams is the untrusted textual form of a PoolDescriptor, as entered on
// the command line or read from configuration.
type PoolParams struct {
	Name          string
	RiskType      string
	APY           string
	MinPeriod     string
	AssetPubkey   string
	AssetType     string
	InvestmentArm string

	// AllowTruncate permits names longer than MaxPoolNameLength bytes, which
	// are then cut to their first MaxPoolNameLength bytes.
	AllowTruncate bool
}

// ParsePoolParams validates params and converts them into a PoolDescriptor.
// Every check runs before any encoding takes place.
func ParsePoolParams(params PoolParams) (*PoolDescriptor, error) {
	if len(params.Name) > MaxPoolNameLength && !params.AllowTruncate {
		return nil, errors.Wrapf(ErrInvalidNameLength, "name is %d bytes, max %d", len(params.Name), MaxPoolNameLength)
	}

	riskType, err := parseUint(params.RiskType, "risk_type", 8)
	if err != nil {
		return nil, err
	}
	apy, err := parseUint(params.APY, "apy", 64)
	if err != nil {
		return nil, err
	}
	minPeriod, err := parseUint(params.MinPeriod, "min_period", 64)
	if err != nil {
		return nil, err
	}
	assetType, err := parseUint(params.AssetType, "asset_type", 8)
	if err != nil {
		return nil, err
	}
	investmentArm, err := parseUint(params.InvestmentArm, "investment_arm", 64)
	if err != nil {
		return nil, err
	}

	assetPubkey, err := arch.PubkeyFromHex(params.AssetPubkey)
	if err != nil {
		return nil, errors.Wrap(err, "asset_pubkey")
	}

	name := params.Name
	if len(name) > MaxPoolNameLength {
		name = name[:MaxPoolNameLength]
	}

	return &PoolDescriptor{
		Name:          name,
		RiskType:      uint8(riskType),
		APY:           apy,
		MinPeriod:     minPeriod,
		AssetPubkey:   assetPubkey,
		AssetType:     uint8(assetType),
		InvestmentArm: investmentArm,
	}, nil
}

func parseUint(value, field string, bitSize int) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(value), 10, bitSize)
	if err != nil {
		return 0, errors.Wrapf(ErrFieldOutOfRange, "%s: %q is not a u%d", field, value, bitSize)
	}
	return v, nil
}
