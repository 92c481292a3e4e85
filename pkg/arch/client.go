package arch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/bqpools/pool-client/pkg/rate"
	"github.com/bqpools/pool-client/pkg/retry"
	"github.com/bqpools/pool-client/pkg/retry/backoff"
)

const (
	methodReadAccountInfo         = "read_account_info"
	methodSendTransaction         = "send_transaction"
	methodGetAccountAddress       = "get_account_address"
	methodIsNodeReady             = "is_node_ready"
	methodGetProcessedTransaction = "get_processed_transaction"

	jsonRPCVersion = "2.0"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// AccountInfo is the ledger state of an account.
type AccountInfo struct {
	Owner        Pubkey
	Data         []byte
	Utxo         string
	IsExecutable bool
}

type TransactionStatus string

const (
	TransactionStatusProcessing TransactionStatus = "Processing"
	TransactionStatusProcessed  TransactionStatus = "Processed"
	TransactionStatusFailed     TransactionStatus = "Failed"
)

// ProcessedTransaction is a submitted transaction as tracked by the node.
type ProcessedTransaction struct {
	Transaction   Transaction
	Status        TransactionStatus
	FailureReason string
	BitcoinTxids  []string
}

// Client provides an interaction with the ledger node JSON RPC API.
type Client interface {
	// ReadAccountInfo returns ErrNoAccountInfo if the account does not exist.
	ReadAccountInfo(ctx context.Context, account Pubkey) (AccountInfo, error)

	// SendTransaction submits txn exactly once and returns its txid. Node
	// side rejections are returned as *SubmissionRejectedError.
	SendTransaction(ctx context.Context, txn Transaction) (string, error)

	GetAccountAddress(ctx context.Context, account Pubkey) (string, error)
	IsNodeReady(ctx context.Context) (bool, error)
	GetProcessedTransaction(ctx context.Context, txid string) (*ProcessedTransaction, error)
}

var (
	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

type client struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	retrier retry.Retrier
	limiter rate.Limiter
}

// New returns a client using the specified endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return NewWithLimiter(endpoint, opts, &rate.NoLimiter{})
}

// NewWithLimiter returns a client whose requests, including retries, are
// throttled per method by limiter.
func NewWithLimiter(endpoint string, opts *jsonrpc.RPCClientOpts, limiter rate.Limiter) Client {
	c := newClient(
		jsonrpc.NewClientWithOpts(endpoint, opts),
		retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	)
	c.limiter = limiter
	return c
}

func newClient(rpc jsonrpc.RPCClient, retrier retry.Retrier) *client {
	return &client{
		log:     logrus.StandardLogger().WithField("type", "arch/client"),
		client:  rpc,
		retrier: retrier,
		limiter: &rate.NoLimiter{},
	}
}

// doCall issues a single request. params is sent verbatim as the request's
// params member, since the node expects bare values (a key array, a txid
// string, a transaction object) rather than positional parameter lists.
func (c *client) doCall(out interface{}, method string, params interface{}) error {
	resp, err := c.client.CallRaw(&jsonrpc.RPCRequest{
		JSONRPC: jsonRPCVersion,
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if out == nil {
		return nil
	}

	return resp.GetObject(out)
}

// call performs an idempotent read, retrying rate limits and service errors.
func (c *client) call(ctx context.Context, out interface{}, method string, params interface{}) error {
	_, err := c.retrier.Retry(func() error {
		if err := c.limiter.Wait(ctx, method); err != nil {
			return err
		}

		err := c.doCall(out, method, params)
		if err == nil {
			return nil
		}

		return c.handleRpcError(method, err)
	}, retry.Context(ctx))

	return err
}

func (c *client) handleRpcError(method string, err error) error {
	var code int
	switch e := err.(type) {
	case *jsonrpc.RPCError:
		code = e.Code
	case *jsonrpc.HTTPError:
		code = e.Code
	default:
		return err
	}

	if code == 429 {
		c.log.WithField("method", method).Error("rate limited")
		return errRateLimited
	}
	if code >= 500 {
		return errServiceError
	}

	return err
}

func (c *client) ReadAccountInfo(ctx context.Context, account Pubkey) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Owner        Pubkey    `json:"owner"`
		Data         byteArray `json:"data"`
		Utxo         string    `json:"utxo"`
		IsExecutable bool      `json:"is_executable"`
	}

	var resp *rpcResponse
	if err := c.call(ctx, &resp, methodReadAccountInfo, account); err != nil {
		if rpcErr, ok := err.(*jsonrpc.RPCError); ok && isAccountNotFound(rpcErr) {
			return accountInfo, ErrNoAccountInfo
		}
		return accountInfo, errors.Wrap(err, "read_account_info() failed to send request")
	}

	if resp == nil {
		return accountInfo, ErrNoAccountInfo
	}

	accountInfo.Owner = resp.Owner
	accountInfo.Data = resp.Data
	accountInfo.Utxo = resp.Utxo
	accountInfo.IsExecutable = resp.IsExecutable

	return accountInfo, nil
}

func (c *client) SendTransaction(ctx context.Context, txn Transaction) (string, error) {
	if err := c.limiter.Wait(ctx, methodSendTransaction); err != nil {
		return "", err
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     methodSendTransaction,
		"version":    txn.Version,
		"signatures": len(txn.Signatures),
	})

	var txid string
	if err := c.doCall(&txid, methodSendTransaction, txn); err != nil {
		parsed := ParseRPCError(err)

		var rejected *SubmissionRejectedError
		if errors.As(parsed, &rejected) {
			log.WithError(parsed).Warn("transaction rejected")
			return "", parsed
		}

		log.WithError(err).Warn("failed to send transaction")
		return "", errors.Wrap(err, "send_transaction() failed to send request")
	}

	log.WithField("txid", txid).Debug("transaction submitted")
	return txid, nil
}

func (c *client) GetAccountAddress(ctx context.Context, account Pubkey) (string, error) {
	var address string
	if err := c.call(ctx, &address, methodGetAccountAddress, account); err != nil {
		return "", errors.Wrap(err, "get_account_address() failed to send request")
	}

	return address, nil
}

func (c *client) IsNodeReady(ctx context.Context) (bool, error) {
	var ready bool
	if err := c.call(ctx, &ready, methodIsNodeReady, nil); err != nil {
		return false, errors.Wrap(err, "is_node_ready() failed to send request")
	}

	return ready, nil
}

func (c *client) GetProcessedTransaction(ctx context.Context, txid string) (*ProcessedTransaction, error) {
	type rpcResponse struct {
		RuntimeTransaction Transaction     `json:"runtime_transaction"`
		Status             json.RawMessage `json:"status"`
		BitcoinTxids       []string        `json:"bitcoin_txids"`
	}

	var resp *rpcResponse
	if err := c.call(ctx, &resp, methodGetProcessedTransaction, txid); err != nil {
		if rpcErr, ok := err.(*jsonrpc.RPCError); ok && isAccountNotFound(rpcErr) {
			return nil, ErrTransactionNotFound
		}
		return nil, errors.Wrap(err, "get_processed_transaction() failed to send request")
	}

	if resp == nil {
		return nil, ErrTransactionNotFound
	}

	status, reason, err := parseTransactionStatus(resp.Status)
	if err != nil {
		return nil, err
	}

	return &ProcessedTransaction{
		Transaction:   resp.RuntimeTransaction,
		Status:        status,
		FailureReason: reason,
		BitcoinTxids:  resp.BitcoinTxids,
	}, nil
}

// parseTransactionStatus accepts either a bare status name or the
// {"Failed": "<reason>"} object form.
func parseTransactionStatus(raw json.RawMessage) (TransactionStatus, string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return TransactionStatus(name), "", nil
	}

	var tagged map[string]interface{}
	if err := json.Unmarshal(raw, &tagged); err != nil || len(tagged) != 1 {
		return "", "", errors.Errorf("unexpected transaction status format: %s", string(raw))
	}

	for k, v := range tagged {
		reason, _ := v.(string)
		return TransactionStatus(k), strings.TrimSpace(reason), nil
	}

	return "", "", nil
}
