package wallet

import (
	"context"
)

type AddressPurpose string

const (
	AddressPurposeOrdinals AddressPurpose = "ordinals"
	AddressPurposePayment  AddressPurpose = "payment"
)

// MessageSigningProtocol selects how an external wallet signs a message.
type MessageSigningProtocol string

const (
	MessageSigningProtocolBIP322 MessageSigningProtocol = "BIP322"
	MessageSigningProtocolECDSA  MessageSigningProtocol = "ECDSA"
)

// ConnectMessage is shown to the user by the external wallet when the
// session asks for its addresses.
const ConnectMessage = "Connect to BQ Pools"

type GetAddressesRequest struct {
	Purposes []AddressPurpose `json:"purposes"`
	Message  string           `json:"message"`
}

type Address struct {
	Address   string         `json:"address"`
	PublicKey string         `json:"publicKey"`
	Purpose   AddressPurpose `json:"purpose"`
}

type SignMessageRequest struct {
	Address  string                 `json:"address"`
	Message  string                 `json:"message"`
	Protocol MessageSigningProtocol `json:"protocol"`
}

type SignMessageResponse struct {
	// Signature is the base64 encoded BIP-322 witness.
	Signature   string `json:"signature"`
	MessageHash string `json:"messageHash"`
	Address     string `json:"address"`
}

// ExternalWallet is a wallet that holds its own keys, such as a browser
// extension reached through a bridge.
type ExternalWallet interface {
	// GetAddresses asks the user to disclose addresses for the requested
	// purposes. A refusal is reported as an error.
	GetAddresses(ctx context.Context, req *GetAddressesRequest) ([]Address, error)

	// SignMessage asks the user to sign a message with the key behind an
	// address previously returned by GetAddresses.
	SignMessage(ctx context.Context, req *SignMessageRequest) (*SignMessageResponse, error)
}
