package keys

import (
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"
)

// Network selects the address-version rules used for derived addresses.
type Network string

const (
	NetworkMain Network = "mainnet"
	NetworkTest Network = "testnet"
	NetworkReg  Network = "regtest"
)

var ErrUnknownNetwork = errors.New("unknown network")

// ParseNetwork parses a network name. The short forms "main", "test" and
// "reg" are accepted alongside the full names.
func ParseNetwork(value string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "main", "mainnet":
		return NetworkMain, nil
	case "test", "testnet":
		return NetworkTest, nil
	case "reg", "regtest":
		return NetworkReg, nil
	}

	return "", errors.Wrapf(ErrUnknownNetwork, "%q", value)
}

// Params returns the chain parameters for the network.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case NetworkMain:
		return &chaincfg.MainNetParams, nil
	case NetworkTest:
		return &chaincfg.TestNet3Params, nil
	case NetworkReg:
		return &chaincfg.RegressionNetParams, nil
	}

	return nil, errors.Wrapf(ErrUnknownNetwork, "%q", string(n))
}

// IsLocal reports whether the network is the local regtest network, which is
// served by locally generated keys rather than an external wallet.
func (n Network) IsLocal() bool {
	return n == NetworkReg
}

func (n Network) String() string {
	return string(n)
}

// DeriveAddress returns the key-path-only taproot address for the x-only
// public key under the network's address rules.
//
// The internal key is tweaked per BIP-86 (no script tree), so the result
// matches what wallets produce for the same internal key.
func DeriveAddress(pub PublicKey, network Network) (string, error) {
	addr, err := taprootAddress(pub, network)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

func taprootAddress(pub PublicKey, network Network) (*btcutil.AddressTaproot, error) {
	params, err := network.Params()
	if err != nil {
		return nil, err
	}

	internalKey, err := pub.schnorrKey()
	if err != nil {
		return nil, err
	}

	outputKey := txscript.ComputeTaprootKeyNoScript(internalKey)

	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create taproot address")
	}
	return addr, nil
}

// EncodeWIF returns the compressed Wallet Import Format encoding of the
// private key for the network.
func EncodeWIF(priv PrivateKey, network Network) (string, error) {
	params, err := network.Params()
	if err != nil {
		return "", err
	}

	key, _ := btcec.PrivKeyFromBytes(priv[:])
	defer key.Zero()

	wif, err := btcutil.NewWIF(key, params, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode wif")
	}
	return wif.String(), nil
}
