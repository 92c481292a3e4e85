package arch

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/arch/binary"
)

const (
	// MaxSigners bounds the signer list, whose length is encoded in a single byte.
	MaxSigners = 255

	// MaxInstructions bounds the instruction list, whose length is encoded in
	// a single byte.
	MaxInstructions = 255

	// MaxAccounts bounds the account list of an instruction.
	MaxAccounts = 255

	// HashSize is the size of a message hash, which is hex text.
	HashSize = 2 * sha256.Size

	accountMetaSize = binary.Key32Size + 2
)

var (
	ErrDanglingSigner  = errors.New("instruction references a signer that is not in the signer list")
	ErrDuplicateSigner = errors.New("duplicate signer")
	ErrNoSigners       = errors.New("message requires at least one signer")
	ErrTooManyEntries  = errors.New("too many entries")
)

// Message is the signable unit submitted to the ledger: the public keys
// expected to sign together with the instructions to execute.
type Message struct {
	Signers      []Pubkey      `json:"signers"`
	Instructions []Instruction `json:"instructions"`
}

// NewMessage assembles a Message.
//
// Every account marked IsSigner in any instruction must appear in signers,
// and signers must be unique. The order of both signers and instructions is
// preserved as provided.
func NewMessage(signers []Pubkey, instructions ...Instruction) (Message, error) {
	if len(signers) == 0 {
		return Message{}, ErrNoSigners
	}
	if len(signers) > MaxSigners {
		return Message{}, errors.Wrapf(ErrTooManyEntries, "%d signers", len(signers))
	}
	if len(instructions) > MaxInstructions {
		return Message{}, errors.Wrapf(ErrTooManyEntries, "%d instructions", len(instructions))
	}

	known := make(map[Pubkey]struct{}, len(signers))
	for _, signer := range signers {
		if _, ok := known[signer]; ok {
			return Message{}, errors.Wrapf(ErrDuplicateSigner, "%s", signer)
		}
		known[signer] = struct{}{}
	}

	for i, ix := range instructions {
		if len(ix.Accounts) > MaxAccounts {
			return Message{}, errors.Wrapf(ErrTooManyEntries, "%d accounts in instruction %d", len(ix.Accounts), i)
		}

		for _, account := range ix.Accounts {
			if !account.IsSigner {
				continue
			}
			if _, ok := known[account.Pubkey]; !ok {
				return Message{}, errors.Wrapf(ErrDanglingSigner, "instruction %d: %s", i, account.Pubkey)
			}
		}
	}

	return Message{
		Signers:      append([]Pubkey(nil), signers...),
		Instructions: append([]Instruction(nil), instructions...),
	}, nil
}

// Marshal returns the canonical serialization of the message, which is the
// input of Hash.
func (m Message) Marshal() []byte {
	size := 1 + len(m.Signers)*binary.Key32Size + 1
	for _, ix := range m.Instructions {
		size += binary.Key32Size + 1 + len(ix.Accounts)*accountMetaSize + 8 + len(ix.Data)
	}

	b := make([]byte, size)

	var offset int
	binary.PutUint8(b[offset:], uint8(len(m.Signers)), &offset)
	for _, signer := range m.Signers {
		binary.PutKey32(b[offset:], signer[:], &offset)
	}

	binary.PutUint8(b[offset:], uint8(len(m.Instructions)), &offset)
	for _, ix := range m.Instructions {
		binary.PutKey32(b[offset:], ix.ProgramID[:], &offset)

		binary.PutUint8(b[offset:], uint8(len(ix.Accounts)), &offset)
		for _, account := range ix.Accounts {
			binary.PutKey32(b[offset:], account.Pubkey[:], &offset)
			binary.PutBool(b[offset:], account.IsSigner, &offset)
			binary.PutBool(b[offset:], account.IsWritable, &offset)
		}

		binary.PutUint64(b[offset:], uint64(len(ix.Data)), &offset)
		offset += copy(b[offset:], ix.Data)
	}

	return b
}

// Hash returns the digest that signers sign: the hex text of the SHA-256 of
// the hex text of the SHA-256 of the serialized message.
func (m Message) Hash() []byte {
	first := sha256.Sum256(m.Marshal())
	second := sha256.Sum256([]byte(hex.EncodeToString(first[:])))

	return []byte(hex.EncodeToString(second[:]))
}
