package arch

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// The ledger RPC encodes every byte string, including keys and signatures,
// as a JSON array of numbers. Fixed size arrays already marshal that way;
// byteArray covers variable length data, which encoding/json would otherwise
// render as base64.
type byteArray []byte

func (b byteArray) MarshalJSON() ([]byte, error) {
	values := make([]uint16, len(b))
	for i, v := range b {
		values[i] = uint16(v)
	}
	return json.Marshal(values)
}

func (b *byteArray) UnmarshalJSON(data []byte) error {
	var values []uint16
	if err := json.Unmarshal(data, &values); err != nil {
		return errors.Wrap(err, "byte array must be a list of numbers")
	}

	decoded := make([]byte, len(values))
	for i, v := range values {
		if v > 0xff {
			return errors.Errorf("byte array value out of range at %d: %d", i, v)
		}
		decoded[i] = byte(v)
	}

	*b = decoded
	return nil
}

type instructionJSON struct {
	ProgramID Pubkey        `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      byteArray     `json:"data"`
}

func (i Instruction) MarshalJSON() ([]byte, error) {
	accounts := i.Accounts
	if accounts == nil {
		accounts = []AccountMeta{}
	}

	return json.Marshal(instructionJSON{
		ProgramID: i.ProgramID,
		Accounts:  accounts,
		Data:      byteArray(i.Data),
	})
}

func (i *Instruction) UnmarshalJSON(data []byte) error {
	var decoded instructionJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	i.ProgramID = decoded.ProgramID
	i.Accounts = decoded.Accounts
	i.Data = decoded.Data
	return nil
}
