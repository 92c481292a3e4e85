package pool

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/arch"
)

// PoolListAccount is the pool program's registry of created pools. Its data
// is UTF-8 JSON of the form {"pools": ["<hex pubkey>", ...]}.
type PoolListAccount struct {
	Pools []arch.Pubkey
}

func (obj *PoolListAccount) Unmarshal(data []byte) error {
	var raw struct {
		Pools *[]string `json:"pools"`
	}
	if err := json.Unmarshal(trimAccountData(data), &raw); err != nil {
		return errors.Wrap(ErrInvalidPoolList, err.Error())
	}
	if raw.Pools == nil {
		return errors.Wrap(ErrInvalidPoolList, "missing pools")
	}

	pools := make([]arch.Pubkey, 0, len(*raw.Pools))
	for i, value := range *raw.Pools {
		pub, err := arch.PubkeyFromHex(value)
		if err != nil {
			return errors.Wrapf(ErrInvalidPoolList, "pool %d: %v", i, err)
		}
		pools = append(pools, pub)
	}

	obj.Pools = pools
	return nil
}

// PoolAccount is the state of a single pool. Its data is UTF-8 JSON.
type PoolAccount struct {
	Name      string
	Liquidity string
	Status    string
}

func (obj *PoolAccount) Unmarshal(data []byte) error {
	var raw struct {
		Name      *string     `json:"name"`
		Liquidity json.Number `json:"liquidity"`
		Status    string      `json:"status"`
	}

	decoder := json.NewDecoder(bytes.NewReader(trimAccountData(data)))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return errors.Wrap(ErrInvalidPoolAccount, err.Error())
	}
	if raw.Name == nil {
		return errors.Wrap(ErrInvalidPoolAccount, "missing name")
	}

	obj.Name = *raw.Name
	obj.Liquidity = raw.Liquidity.String()
	obj.Status = raw.Status
	return nil
}

// Account data is allocated ahead of time, so the JSON document may be
// followed by zero padding.
func trimAccountData(data []byte) []byte {
	return []byte(strings.TrimRight(string(data), "\x00"))
}
