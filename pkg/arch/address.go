package arch

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/keys"
)

const (
	// PubkeySize is the size of an account or program key.
	PubkeySize = 32
)

var ErrInvalidPubkey = errors.New("invalid pubkey")

// Pubkey identifies an account or program on the ledger. Account keys are
// x-only secp256k1 public keys.
type Pubkey [PubkeySize]byte

// PubkeyFromHex parses a hex encoded Pubkey.
func PubkeyFromHex(value string) (Pubkey, error) {
	var pub Pubkey

	decoded, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(value), "0x"))
	if err != nil {
		return pub, errors.Wrapf(ErrInvalidPubkey, "invalid hex encoding: %v", err)
	}
	if len(decoded) != PubkeySize {
		return pub, errors.Wrapf(keys.ErrInvalidKeyLength, "pubkey must be %d bytes, got %d", PubkeySize, len(decoded))
	}

	copy(pub[:], decoded)
	return pub, nil
}

// MustPubkeyFromHex is PubkeyFromHex for static values. It panics on failure.
func MustPubkeyFromHex(value string) Pubkey {
	pub, err := PubkeyFromHex(value)
	if err != nil {
		panic(err)
	}
	return pub
}

// PubkeyFromKey converts a wallet public key into a Pubkey.
func PubkeyFromKey(pub keys.PublicKey) Pubkey {
	return Pubkey(pub)
}

// Hex returns the hex encoding of the Pubkey.
func (p Pubkey) Hex() string {
	return hex.EncodeToString(p[:])
}

func (p Pubkey) String() string {
	return p.Hex()
}

// IsZero reports whether the Pubkey is unset.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}
