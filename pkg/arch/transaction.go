package arch

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	// SignatureSize is the size of a stripped BIP-322 Schnorr signature.
	SignatureSize = 64

	// DefaultTransactionVersion is the runtime transaction version submitted
	// unless configured otherwise.
	DefaultTransactionVersion uint32 = 0
)

var ErrInvalidSignature = errors.New("invalid signature")

// Signature is a 64-byte Schnorr signature over a Message hash.
type Signature [SignatureSize]byte

// SignatureFromBytes copies a raw signature, which must be exactly
// SignatureSize bytes.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureSize {
		return sig, errors.Wrapf(ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureSize, len(b))
	}

	copy(sig[:], b)
	return sig, nil
}

func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) String() string {
	return base58.Encode(s[:])
}

// Transaction is a signed Message ready for submission.
type Transaction struct {
	Version    uint32      `json:"version"`
	Signatures []Signature `json:"signatures"`
	Message    Message     `json:"message"`
}

// NewTransaction pairs a message with its signatures. Signatures are
// positional: the i'th signature belongs to the i'th signer.
func NewTransaction(version uint32, msg Message, signatures ...Signature) Transaction {
	return Transaction{
		Version:    version,
		Signatures: append([]Signature(nil), signatures...),
		Message:    msg,
	}
}

func (t Transaction) String() string {
	var sig string
	if len(t.Signatures) > 0 {
		sig = t.Signatures[0].String()
	}
	return fmt.Sprintf("Transaction{version=%d, signers=%d, signature=%s}", t.Version, len(t.Message.Signers), sig)
}
