// Package wallet manages the connection to the wallet that signs pool
// transactions: either a key pair held locally (regtest) or an external
// wallet that keeps its own keys.
package wallet

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bqpools/pool-client/pkg/arch"
	"github.com/bqpools/pool-client/pkg/bip322"
	"github.com/bqpools/pool-client/pkg/keys"
	"github.com/bqpools/pool-client/pkg/wallet/store"
)

const (
	// A BIP-322 key path witness is a one item stack holding a 64 byte
	// signature: a 0x01 item count, a 0x40 length prefix, then the signature.
	witnessHeaderSize = 2
	witnessItemCount  = 0x01
)

// Session is the connection state machine. It starts Disconnected, or in the
// state found in its Store, and moves between Disconnected and Connected via
// Connect and Disconnect.
//
// Sessions are safe for concurrent use.
type Session struct {
	log      *logrus.Entry
	network  keys.Network
	store    store.Store
	external ExternalWallet

	mu       sync.RWMutex
	identity identity
}

// NewSession returns a Session for network, seeded from the state cached in
// s. external may be nil when network is local.
func NewSession(ctx context.Context, network keys.Network, s store.Store, external ExternalWallet) (*Session, error) {
	if _, err := network.Params(); err != nil {
		return nil, err
	}

	session := &Session{
		log: logrus.StandardLogger().WithFields(logrus.Fields{
			"type":    "wallet/session",
			"session": uuid.New().String(),
			"network": network.String(),
		}),
		network:  network,
		store:    s,
		external: external,
	}

	if err := session.Restore(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// Restore replaces the in-memory state with the cached one. A missing or
// malformed cache entry leaves the session Disconnected.
func (s *Session) Restore(ctx context.Context) error {
	data, err := s.store.Get(ctx, StateKey)
	if errors.Is(err, store.ErrNotFound) {
		s.setIdentity(nil)
		return nil
	} else if err != nil {
		return errors.Wrap(err, "failed to read cached wallet state")
	}

	id, err := decodeState(data, s.network)
	if err != nil {
		s.log.WithError(err).Warn("ignoring malformed cached wallet state")
		s.setIdentity(nil)
		return nil
	}

	s.setIdentity(id)
	if id != nil {
		s.log.WithField("mode", id.mode()).Debug("restored cached wallet state")
	}
	return nil
}

// Connect connects the session. On the local network a fresh key pair is
// generated on every call; otherwise the external wallet is asked for an
// ordinals address. On failure the previous state is kept.
func (s *Session) Connect(ctx context.Context) error {
	var id identity
	var err error
	if s.network.IsLocal() {
		id, err = s.connectLocal()
	} else {
		id, err = s.connectExternal(ctx)
	}
	if err != nil {
		return err
	}

	s.setIdentity(id)

	log := s.log.WithFields(logrus.Fields{
		"mode":    id.mode(),
		"address": id.address(),
	})
	log.Info("wallet connected")

	// The cache only saves a reconnect, so a failed write does not undo the
	// connection.
	data, err := encodeState(id)
	if err != nil {
		log.WithError(err).Warn("failed to encode wallet state")
		return nil
	}
	if err := s.store.Put(ctx, StateKey, data); err != nil {
		log.WithError(err).Warn("failed to cache wallet state")
	}

	return nil
}

func (s *Session) connectLocal() (identity, error) {
	kp, err := keys.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	address, err := keys.DeriveAddress(kp.Public, s.network)
	if err != nil {
		return nil, err
	}

	return &LocalKey{
		KeyPair: kp,
		Address: address,
	}, nil
}

func (s *Session) connectExternal(ctx context.Context) (identity, error) {
	if s.external == nil {
		return nil, &ConnectionRejectedError{Cause: errors.New("no external wallet configured")}
	}

	addresses, err := s.external.GetAddresses(ctx, &GetAddressesRequest{
		Purposes: []AddressPurpose{AddressPurposeOrdinals},
		Message:  ConnectMessage,
	})
	if err != nil {
		s.log.WithError(err).Info("external wallet connection failed")
		return nil, &ConnectionRejectedError{Cause: err}
	}
	if len(addresses) == 0 {
		return nil, &ConnectionRejectedError{Cause: errors.New("wallet returned no addresses")}
	}

	first := addresses[0]
	if first.Address == "" {
		return nil, &ConnectionRejectedError{Cause: errors.New("wallet returned an empty address")}
	}

	pub, err := keys.ParsePublicKey(first.PublicKey)
	if err != nil {
		return nil, &ConnectionRejectedError{Cause: errors.Wrap(err, "wallet returned an invalid public key")}
	}

	return &ExternalAccount{
		PublicKey: pub,
		Address:   first.Address,
	}, nil
}

// Disconnect clears the identity and the cached state. It is idempotent.
func (s *Session) Disconnect(ctx context.Context) error {
	s.setIdentity(nil)

	if err := s.store.Delete(ctx, StateKey); err != nil {
		return errors.Wrap(err, "failed to clear cached wallet state")
	}

	s.log.Info("wallet disconnected")
	return nil
}

// SignMessage signs the hash of msg, returning the 64 byte Schnorr signature
// carried in the BIP-322 witness.
func (s *Session) SignMessage(ctx context.Context, msg arch.Message) (arch.Signature, error) {
	s.mu.RLock()
	id := s.identity
	s.mu.RUnlock()

	if id == nil {
		return arch.Signature{}, ErrNotConnected
	}

	message := hex.EncodeToString(msg.Hash())

	var encoded string
	var err error
	switch t := id.(type) {
	case *LocalKey:
		encoded, err = s.signLocal(t, message)
	case *ExternalAccount:
		encoded, err = s.signExternal(ctx, t, message)
	default:
		err = errors.Errorf("unsupported identity %T", id)
	}
	if err != nil {
		s.log.WithError(err).WithField("mode", id.mode()).Warn("failed to sign message")
		return arch.Signature{}, &SigningFailedError{Cause: err}
	}

	// Wallets are not trusted to sign what was asked, or with the connected key.
	if err := bip322.Verify(id.address(), []byte(message), encoded); err != nil {
		s.log.WithError(err).WithField("mode", id.mode()).Warn("wallet returned an invalid signature")
		return arch.Signature{}, &SigningFailedError{Cause: err}
	}

	sig, err := stripWitness(encoded)
	if err != nil {
		return arch.Signature{}, &SigningFailedError{Cause: err}
	}
	return sig, nil
}

func (s *Session) signLocal(key *LocalKey, message string) (string, error) {
	wif, err := keys.EncodeWIF(key.KeyPair.Private, s.network)
	if err != nil {
		return "", err
	}

	return bip322.Sign(wif, key.Address, []byte(message))
}

func (s *Session) signExternal(ctx context.Context, account *ExternalAccount, message string) (string, error) {
	if s.external == nil {
		return "", errors.New("no external wallet configured")
	}

	resp, err := s.external.SignMessage(ctx, &SignMessageRequest{
		Address:  account.Address,
		Message:  message,
		Protocol: MessageSigningProtocolBIP322,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("wallet returned no signature")
	}

	return resp.Signature, nil
}

// stripWitness extracts the Schnorr signature from a base64 encoded BIP-322
// witness. Anything other than a single 64 byte item is rejected.
func stripWitness(encoded string) (arch.Signature, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return arch.Signature{}, errors.Wrap(err, "invalid base64 signature")
	}

	if len(raw) != witnessHeaderSize+arch.SignatureSize ||
		raw[0] != witnessItemCount ||
		raw[1] != arch.SignatureSize {
		return arch.Signature{}, errors.Errorf("unexpected witness encoding (%d bytes)", len(raw))
	}

	return arch.SignatureFromBytes(raw[witnessHeaderSize:])
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return stateOf(s.identity)
}

// PublicKey returns the connected public key, if any.
func (s *Session) PublicKey() (keys.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return keys.PublicKey{}, false
	}
	return s.identity.publicKey(), true
}

// Mode returns the connection mode, or ModeNone when disconnected.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return ModeNone
	}
	return s.identity.mode()
}

func (s *Session) Network() keys.Network {
	return s.network
}

func (s *Session) setIdentity(id identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}
