package keys

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/pkg/errors"
)

const (
	// PrivateKeySize is the size of a raw secp256k1 scalar.
	PrivateKeySize = 32

	// PublicKeySize is the size of an x-only public key.
	PublicKeySize = 32

	compressedPublicKeySize = 33
)

var (
	ErrInvalidKeyLength  = errors.New("invalid key length")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
)

// PrivateKey is a raw 32-byte secp256k1 scalar.
type PrivateKey [PrivateKeySize]byte

// PublicKey is an x-only secp256k1 public key, i.e. the compressed encoding
// with its parity prefix dropped.
type PublicKey [PublicKeySize]byte

// KeyPair is a private key together with the public key derived from it.
//
// Public is never set independently of Private; use NewKeyPair.
type KeyPair struct {
	Private PrivateKey
	Public  PublicKey
}

// GeneratePrivateKey returns a new random private key.
//
// Failure here means the platform random source is unavailable, which is not
// something callers can recover from.
func GeneratePrivateKey() (PrivateKey, error) {
	var priv PrivateKey

	key, err := btcec.NewPrivateKey()
	if err != nil {
		return priv, errors.Wrap(err, "failed to generate private key")
	}
	defer key.Zero()

	copy(priv[:], key.Serialize())
	return priv, nil
}

// DerivePublicKey returns the x-only public key for the raw private key.
func DerivePublicKey(priv []byte) (PublicKey, error) {
	var pub PublicKey

	if len(priv) != PrivateKeySize {
		return pub, errors.Wrapf(ErrInvalidKeyLength, "private key must be %d bytes, got %d", PrivateKeySize, len(priv))
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(priv); overflow || scalar.IsZero() {
		return pub, ErrInvalidPrivateKey
	}

	_, pubKey := btcec.PrivKeyFromBytes(priv)
	copy(pub[:], schnorr.SerializePubKey(pubKey))
	return pub, nil
}

// NewKeyPair derives the KeyPair for the provided private key.
func NewKeyPair(priv PrivateKey) (KeyPair, error) {
	pub, err := DerivePublicKey(priv[:])
	if err != nil {
		return KeyPair{}, err
	}

	return KeyPair{
		Private: priv,
		Public:  pub,
	}, nil
}

// GenerateKeyPair returns a fresh random KeyPair.
func GenerateKeyPair() (KeyPair, error) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		return KeyPair{}, err
	}

	return NewKeyPair(priv)
}

// ParsePrivateKey parses a hex encoded private key.
func ParsePrivateKey(value string) (PrivateKey, error) {
	var priv PrivateKey

	decoded, err := decodeHex(value)
	if err != nil {
		return priv, err
	}
	if len(decoded) != PrivateKeySize {
		return priv, errors.Wrapf(ErrInvalidKeyLength, "private key must be %d bytes, got %d", PrivateKeySize, len(decoded))
	}

	copy(priv[:], decoded)
	return priv, nil
}

// ParsePublicKey parses a hex encoded public key. Both x-only (32 byte) and
// compressed (33 byte) encodings are accepted; compressed keys have their
// parity prefix dropped.
func ParsePublicKey(value string) (PublicKey, error) {
	var pub PublicKey

	decoded, err := decodeHex(value)
	if err != nil {
		return pub, err
	}

	switch len(decoded) {
	case PublicKeySize:
		copy(pub[:], decoded)
	case compressedPublicKeySize:
		if decoded[0] != 0x02 && decoded[0] != 0x03 {
			return pub, errors.Wrapf(ErrInvalidPublicKey, "unexpected prefix %#x", decoded[0])
		}
		copy(pub[:], decoded[1:])
	default:
		return pub, errors.Wrapf(ErrInvalidKeyLength, "public key must be %d or %d bytes, got %d", PublicKeySize, compressedPublicKeySize, len(decoded))
	}

	return pub, nil
}

// Hex returns the hex encoding of the private key.
func (k PrivateKey) Hex() string {
	return hex.EncodeToString(k[:])
}

// Hex returns the hex encoding of the public key.
func (k PublicKey) Hex() string {
	return hex.EncodeToString(k[:])
}

// String returns the hex encoding of the public key.
func (k PublicKey) String() string {
	return k.Hex()
}

// schnorrKey lifts the x-only key onto the curve (even Y).
func (k PublicKey) schnorrKey() (*btcec.PublicKey, error) {
	pub, err := schnorr.ParsePubKey(k[:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return pub, nil
}

func decodeHex(value string) ([]byte, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "0x")

	decoded, err := hex.DecodeString(value)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex encoding")
	}
	return decoded, nil
}
