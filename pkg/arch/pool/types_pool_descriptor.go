package pool

import (
	"strings"

	"github.com/bqpools/pool-client/pkg/arch"
	"github.com/bqpools/pool-client/pkg/arch/binary"
)

const (
	MaxPoolNameLength = 32

	PoolDescriptorSize = (MaxPoolNameLength + // pool_name
		1 + // risk_type
		8 + // apy
		8 + // min_period
		32 + // asset_pubkey
		1 + // asset_type
		8) // investment_arm
)

// PoolDescriptor describes a pool to be created.
type PoolDescriptor struct {
	// Name is stored as a zero padded 32 byte field. Longer names are
	// truncated to their first 32 bytes when marshalled.
	Name          string
	RiskType      uint8
	APY           uint64
	MinPeriod     uint64 // seconds
	AssetPubkey   arch.Pubkey
	AssetType     uint8
	InvestmentArm uint64
}

// Marshal encodes the descriptor in its dense little endian layout. The
// result is always PoolDescriptorSize bytes.
func (obj *PoolDescriptor) Marshal() []byte {
	data := make([]byte, PoolDescriptorSize)

	var offset int
	binary.PutFixedBytes(data[offset:], []byte(obj.Name), MaxPoolNameLength, &offset)
	binary.PutUint8(data[offset:], obj.RiskType, &offset)
	binary.PutUint64(data[offset:], obj.APY, &offset)
	binary.PutUint64(data[offset:], obj.MinPeriod, &offset)
	binary.PutKey32(data[offset:], obj.AssetPubkey[:], &offset)
	binary.PutUint8(data[offset:], obj.AssetType, &offset)
	binary.PutUint64(data[offset:], obj.InvestmentArm, &offset)

	return data
}

func (obj *PoolDescriptor) Unmarshal(data []byte) error {
	if len(data) != PoolDescriptorSize {
		return ErrInvalidInstructionData
	}

	var offset int

	var name []byte
	binary.GetFixedBytes(data[offset:], &name, MaxPoolNameLength, &offset)
	obj.Name = strings.TrimRight(string(name), string([]byte{0}))

	binary.GetUint8(data[offset:], &obj.RiskType, &offset)
	binary.GetUint64(data[offset:], &obj.APY, &offset)
	binary.GetUint64(data[offset:], &obj.MinPeriod, &offset)

	var asset [binary.Key32Size]byte
	binary.GetKey32(data[offset:], &asset, &offset)
	obj.AssetPubkey = arch.Pubkey(asset)

	binary.GetUint8(data[offset:], &obj.AssetType, &offset)
	binary.GetUint64(data[offset:], &obj.InvestmentArm, &offset)

	return nil
}
