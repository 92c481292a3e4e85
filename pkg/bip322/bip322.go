// Package bip322 implements BIP-322 "simple" message signatures for
// key-path taproot addresses.
//
// Reference: https://github.com/bitcoin/bips/blob/master/bip-0322.mediawiki
package bip322

import (
	"bytes"
	"encoding/base64"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

const (
	tag = "BIP0322-signed-message"

	// maxWitnessItemSize bounds a single decoded witness item. A key-path
	// spend carries one 64 or 65 byte signature.
	maxWitnessItemSize = 80
)

var (
	ErrUnsupportedAddress = errors.New("only p2tr addresses are supported")
	ErrKeyAddressMismatch = errors.New("private key does not control address")
	ErrInvalidSignature   = errors.New("invalid signature")
)

// Hash returns the BIP-322 tagged hash of the message.
func Hash(message []byte) chainhash.Hash {
	return *chainhash.TaggedHash([]byte(tag), message)
}

// Sign produces a BIP-322 simple signature of message by the taproot address
// controlled by the WIF encoded key. The result is the base64 encoding of the
// serialized witness stack of the virtual to_sign transaction.
func Sign(wif, address string, message []byte) (string, error) {
	decodedWIF, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return "", errors.Wrap(err, "invalid wif")
	}

	addr, pkScript, err := decodeAddress(address)
	if err != nil {
		return "", err
	}

	outputKey := txscript.ComputeTaprootKeyNoScript(decodedWIF.PrivKey.PubKey())
	if !bytes.Equal(schnorr.SerializePubKey(outputKey), addr.WitnessProgram()) {
		return "", ErrKeyAddressMismatch
	}

	toSign, fetcher, err := buildVirtualTransactions(pkScript, message)
	if err != nil {
		return "", err
	}

	sigHashes := txscript.NewTxSigHashes(toSign, fetcher)
	witness, err := txscript.TaprootWitnessSignature(
		toSign,
		sigHashes,
		0,
		0,
		pkScript,
		txscript.SigHashDefault,
		decodedWIF.PrivKey,
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign to_sign transaction")
	}

	encoded, err := serializeWitness(witness)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// Verify checks a BIP-322 simple signature of message by address.
func Verify(address string, message []byte, signature string) error {
	_, pkScript, err := decodeAddress(address)
	if err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, "invalid base64 encoding")
	}

	witness, err := parseWitness(raw)
	if err != nil {
		return err
	}

	toSign, fetcher, err := buildVirtualTransactions(pkScript, message)
	if err != nil {
		return err
	}
	toSign.TxIn[0].Witness = witness

	sigHashes := txscript.NewTxSigHashes(toSign, fetcher)
	vm, err := txscript.NewEngine(
		pkScript,
		toSign,
		0,
		txscript.StandardVerifyFlags,
		nil,
		sigHashes,
		0,
		fetcher,
	)
	if err != nil {
		return errors.Wrapf(ErrInvalidSignature, "script engine setup failed: %v", err)
	}
	if err := vm.Execute(); err != nil {
		return errors.Wrapf(ErrInvalidSignature, "script execution failed: %v", err)
	}

	return nil
}

func decodeAddress(address string) (*btcutil.AddressTaproot, []byte, error) {
	// Bech32 addresses carry their own network prefix, so the default
	// network only matters for legacy encodings, which are rejected anyway.
	decoded, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid address %q", address)
	}

	addr, ok := decoded.(*btcutil.AddressTaproot)
	if !ok {
		return nil, nil, ErrUnsupportedAddress
	}

	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build output script")
	}

	return addr, pkScript, nil
}

// buildVirtualTransactions returns the unsigned to_sign transaction along with
// a fetcher for the to_spend output it consumes.
func buildVirtualTransactions(pkScript, message []byte) (*wire.MsgTx, txscript.PrevOutputFetcher, error) {
	msgHash := Hash(message)

	sigScript, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(msgHash[:]).
		Script()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build to_spend script")
	}

	toSpend := wire.NewMsgTx(0)
	spendIn := wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex), sigScript, nil)
	spendIn.Sequence = 0
	toSpend.AddTxIn(spendIn)
	toSpend.AddTxOut(wire.NewTxOut(0, pkScript))

	toSpendHash := toSpend.TxHash()

	toSign := wire.NewMsgTx(0)
	signIn := wire.NewTxIn(wire.NewOutPoint(&toSpendHash, 0), nil, nil)
	signIn.Sequence = 0
	toSign.AddTxIn(signIn)
	toSign.AddTxOut(wire.NewTxOut(0, []byte{txscript.OP_RETURN}))

	return toSign, txscript.NewCannedPrevOutputFetcher(pkScript, 0), nil
}

func serializeWitness(witness wire.TxWitness) ([]byte, error) {
	var buf bytes.Buffer

	if err := wire.WriteVarInt(&buf, 0, uint64(len(witness))); err != nil {
		return nil, errors.Wrap(err, "failed to write witness length")
	}
	for _, item := range witness {
		if err := wire.WriteVarBytes(&buf, 0, item); err != nil {
			return nil, errors.Wrap(err, "failed to write witness item")
		}
	}

	return buf.Bytes(), nil
}

func parseWitness(raw []byte) (wire.TxWitness, error) {
	r := bytes.NewReader(raw)

	count, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSignature, "missing witness length")
	}
	if count != 1 {
		return nil, errors.Wrapf(ErrInvalidSignature, "expected a single witness item, got %d", count)
	}

	item, err := wire.ReadVarBytes(r, 0, maxWitnessItemSize, "witness item")
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSignature, "invalid witness item: %v", err)
	}
	if r.Len() != 0 {
		return nil, errors.Wrap(ErrInvalidSignature, "trailing bytes after witness")
	}

	return wire.TxWitness{item}, nil
}
