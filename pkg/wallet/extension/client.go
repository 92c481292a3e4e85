// Package extension reaches a browser extension wallet through a JSON-RPC
// bridge that exposes the sats-connect request methods.
package extension

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/bqpools/pool-client/pkg/wallet"
)

const (
	methodGetAddresses = "getAddresses"
	methodSignMessage  = "signMessage"

	// Reference: sats-connect RpcErrorCode.USER_REJECTION
	userRejectionCode = -32000
)

var (
	ErrUserRejected = errors.New("request rejected by user")
)

type client struct {
	log    *logrus.Entry
	client jsonrpc.RPCClient
}

// New returns a wallet.ExternalWallet talking to the bridge at endpoint.
func New(endpoint string) wallet.ExternalWallet {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a bridge client configured with the specified RPC
// options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) wallet.ExternalWallet {
	return &client{
		log:    logrus.StandardLogger().WithField("type", "wallet/extension"),
		client: jsonrpc.NewClientWithOpts(endpoint, opts),
	}
}

// GetAddresses implements wallet.ExternalWallet.GetAddresses
func (c *client) GetAddresses(ctx context.Context, req *wallet.GetAddressesRequest) ([]wallet.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp struct {
		Addresses []wallet.Address `json:"addresses"`
	}
	if err := c.client.CallFor(&resp, methodGetAddresses, req); err != nil {
		return nil, c.handleRpcError(methodGetAddresses, err)
	}

	c.log.WithField("count", len(resp.Addresses)).Debug("received addresses")
	return resp.Addresses, nil
}

// SignMessage implements wallet.ExternalWallet.SignMessage
func (c *client) SignMessage(ctx context.Context, req *wallet.SignMessageRequest) (*wallet.SignMessageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp *wallet.SignMessageResponse
	if err := c.client.CallFor(&resp, methodSignMessage, req); err != nil {
		return nil, c.handleRpcError(methodSignMessage, err)
	}
	if resp == nil || resp.Signature == "" {
		return nil, errors.New("bridge returned no signature")
	}

	return resp, nil
}

func (c *client) handleRpcError(method string, err error) error {
	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return errors.Wrapf(err, "%s() failed to send request", method)
	}

	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"code":   rpcErr.Code,
	})

	if rpcErr.Code == userRejectionCode {
		log.Info("user rejected request")
		return errors.Wrap(ErrUserRejected, rpcErr.Message)
	}

	log.WithError(rpcErr).Warn("bridge returned an error")
	return errors.Wrapf(rpcErr, "%s() failed", method)
}
