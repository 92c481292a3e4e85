package wallet

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/keys"
)

// StateKey is the store key the session caches its state under.
const StateKey = "walletState"

type Mode string

const (
	ModeNone           Mode = ""
	ModeLocalKey       Mode = "local_key"
	ModeExternalWallet Mode = "external_wallet"
)

// identity is the connected party. It is either *LocalKey or
// *ExternalAccount; a nil identity means the session is disconnected.
type identity interface {
	mode() Mode
	publicKey() keys.PublicKey
	address() string
}

// LocalKey is a key pair generated and held by the session.
type LocalKey struct {
	KeyPair keys.KeyPair
	Address string
}

func (k *LocalKey) mode() Mode                { return ModeLocalKey }
func (k *LocalKey) publicKey() keys.PublicKey { return k.KeyPair.Public }
func (k *LocalKey) address() string           { return k.Address }

// ExternalAccount is an account disclosed by an external wallet. Its private
// key never leaves the wallet.
type ExternalAccount struct {
	PublicKey keys.PublicKey
	Address   string
}

func (a *ExternalAccount) mode() Mode                { return ModeExternalWallet }
func (a *ExternalAccount) publicKey() keys.PublicKey { return a.PublicKey }
func (a *ExternalAccount) address() string           { return a.Address }

// State is a point in time view of a session.
type State struct {
	IsConnected bool
	Mode        Mode
	PublicKey   *keys.PublicKey
	Address     string
}

func stateOf(id identity) State {
	if id == nil {
		return State{}
	}

	pub := id.publicKey()
	return State{
		IsConnected: true,
		Mode:        id.mode(),
		PublicKey:   &pub,
		Address:     id.address(),
	}
}

// cachedState is the persisted form of a connected identity.
type cachedState struct {
	IsConnected bool    `json:"isConnected"`
	PublicKey   string  `json:"publicKey"`
	PrivateKey  *string `json:"privateKey"`
	Address     *string `json:"address"`
}

func encodeState(id identity) ([]byte, error) {
	pub := id.publicKey()
	address := id.address()

	cached := cachedState{
		IsConnected: true,
		PublicKey:   pub.Hex(),
		Address:     &address,
	}
	if local, ok := id.(*LocalKey); ok {
		priv := local.KeyPair.Private.Hex()
		cached.PrivateKey = &priv
	}

	return json.Marshal(cached)
}

// decodeState parses a cached state. A nil identity with a nil error means
// the cache holds a disconnected state.
func decodeState(data []byte, network keys.Network) (identity, error) {
	var cached cachedState
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, errors.Wrap(err, "invalid cached state")
	}
	if !cached.IsConnected {
		return nil, nil
	}

	pub, err := keys.ParsePublicKey(cached.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid cached public key")
	}

	// The mode follows the network, as in Connect.
	if (cached.PrivateKey != nil) != network.IsLocal() {
		return nil, errors.Errorf("cached state does not match the %s connection mode", network)
	}

	if cached.PrivateKey != nil {
		priv, err := keys.ParsePrivateKey(*cached.PrivateKey)
		if err != nil {
			return nil, errors.Wrap(err, "invalid cached private key")
		}

		kp, err := keys.NewKeyPair(priv)
		if err != nil {
			return nil, errors.Wrap(err, "invalid cached private key")
		}
		if kp.Public != pub {
			return nil, errors.New("cached public key does not match private key")
		}

		// The address is derived rather than trusted, so a cache written
		// without one still yields a usable identity.
		address, err := keys.DeriveAddress(kp.Public, network)
		if err != nil {
			return nil, err
		}

		return &LocalKey{
			KeyPair: kp,
			Address: address,
		}, nil
	}

	if cached.Address == nil || *cached.Address == "" {
		return nil, errors.New("cached external account has no address")
	}

	return &ExternalAccount{
		PublicKey: pub,
		Address:   *cached.Address,
	}, nil
}
