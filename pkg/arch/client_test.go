package arch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"

	"github.com/bqpools/pool-client/pkg/retry"
	"github.com/bqpools/pool-client/pkg/testutil"
)

// newTestClient returns a client without backoff delays.
func newTestClient(s *testutil.RPCServer) Client {
	return newClient(
		jsonrpc.NewClient(s.URL),
		retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
		),
	)
}

func TestClient_ReadAccountInfo(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	account := testPubkey(5)
	owner := testPubkey(6)

	s.Handle(methodReadAccountInfo, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return map[string]interface{}{
			"owner":         owner,
			"data":          []int{123, 125},
			"utxo":          "abcd:0",
			"is_executable": true,
		}, nil
	})

	info, err := c.ReadAccountInfo(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, []byte("{}"), info.Data)
	assert.Equal(t, "abcd:0", info.Utxo)
	assert.True(t, info.IsExecutable)

	// The key is sent as a bare array of numbers.
	var sent []int
	require.NoError(t, json.Unmarshal(s.LastParams(methodReadAccountInfo), &sent))
	require.Len(t, sent, PubkeySize)
	assert.Equal(t, 5, sent[0])
}

func TestClient_ReadAccountInfo_NotFound(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	s.Handle(methodReadAccountInfo, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: 404, Message: "account is not in database: Account not found"}
	})

	_, err := c.ReadAccountInfo(context.Background(), testPubkey(1))
	assert.Equal(t, ErrNoAccountInfo, err)
	assert.Equal(t, 1, s.CallCount(methodReadAccountInfo))

	s.Handle(methodReadAccountInfo, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, nil
	})

	_, err = c.ReadAccountInfo(context.Background(), testPubkey(1))
	assert.Equal(t, ErrNoAccountInfo, err)
}

func TestClient_ReadAccountInfo_Retries(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	s.Handle(methodReadAccountInfo, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: 503, Message: "unavailable"}
	})

	_, err := c.ReadAccountInfo(context.Background(), testPubkey(1))
	assert.True(t, errors.Is(err, errServiceError))
	assert.Equal(t, 3, s.CallCount(methodReadAccountInfo))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.ReadAccountInfo(ctx, testPubkey(1))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 3, s.CallCount(methodReadAccountInfo))
}

func TestClient_SendTransaction(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	signer := testPubkey(1)
	msg, err := NewMessage([]Pubkey{signer}, NewInstruction(testPubkey(2), []byte{9}, NewReadonlyAccountMeta(signer, true)))
	require.NoError(t, err)
	txn := NewTransaction(DefaultTransactionVersion, msg, Signature{1})

	s.Handle(methodSendTransaction, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return "deadbeef", nil
	})

	txid, err := c.SendTransaction(context.Background(), txn)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", txid)

	var sent Transaction
	require.NoError(t, json.Unmarshal(s.LastParams(methodSendTransaction), &sent))
	assert.Equal(t, txn, sent)
}

func TestClient_SendTransaction_Rejected(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	signer := testPubkey(1)
	msg, err := NewMessage([]Pubkey{signer}, NewInstruction(testPubkey(2), nil, NewReadonlyAccountMeta(signer, true)))
	require.NoError(t, err)

	// Even service errors are not retried on submission.
	for _, code := range []int{-32000, 503} {
		s.Handle(methodSendTransaction, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
			return nil, &jsonrpc.RPCError{Code: code, Message: "invalid signature", Data: "sig 0"}
		})

		before := s.CallCount(methodSendTransaction)

		_, err = c.SendTransaction(context.Background(), NewTransaction(0, msg, Signature{}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSubmissionRejected))

		var rejected *SubmissionRejectedError
		require.True(t, errors.As(err, &rejected))
		assert.Equal(t, code, rejected.Code)
		assert.Equal(t, "invalid signature", rejected.Message)
		assert.Equal(t, "sig 0", rejected.Data)

		assert.Equal(t, before+1, s.CallCount(methodSendTransaction))
	}
}

func TestClient_GetAccountAddress(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	s.Handle(methodGetAccountAddress, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return "bcrt1pexample", nil
	})

	address, err := c.GetAccountAddress(context.Background(), testPubkey(1))
	require.NoError(t, err)
	assert.Equal(t, "bcrt1pexample", address)
}

func TestClient_IsNodeReady(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	s.Handle(methodIsNodeReady, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return true, nil
	})

	ready, err := c.IsNodeReady(context.Background())
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestClient_GetProcessedTransaction(t *testing.T) {
	s := testutil.NewRPCServer(t)
	c := newTestClient(s)

	signer := testPubkey(1)
	msg, err := NewMessage([]Pubkey{signer}, NewInstruction(testPubkey(2), []byte{1}, NewReadonlyAccountMeta(signer, true)))
	require.NoError(t, err)
	txn := NewTransaction(0, msg, Signature{})

	for _, tc := range []struct {
		status         interface{}
		expectedStatus TransactionStatus
		expectedReason string
	}{
		{"Processing", TransactionStatusProcessing, ""},
		{"Processed", TransactionStatusProcessed, ""},
		{map[string]string{"Failed": "insufficient funds"}, TransactionStatusFailed, "insufficient funds"},
	} {
		status := tc.status
		s.Handle(methodGetProcessedTransaction, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
			return map[string]interface{}{
				"runtime_transaction": txn,
				"status":              status,
				"bitcoin_txids":       []string{"ff"},
			}, nil
		})

		processed, err := c.GetProcessedTransaction(context.Background(), "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, tc.expectedStatus, processed.Status)
		assert.Equal(t, tc.expectedReason, processed.FailureReason)
		assert.Equal(t, []string{"ff"}, processed.BitcoinTxids)
		assert.Equal(t, txn, processed.Transaction)
	}

	// The txid is sent as a bare string.
	assert.Equal(t, `"deadbeef"`, string(s.LastParams(methodGetProcessedTransaction)))

	s.Handle(methodGetProcessedTransaction, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, nil
	})
	_, err = c.GetProcessedTransaction(context.Background(), "deadbeef")
	assert.Equal(t, ErrTransactionNotFound, err)
}

type countingLimiter struct {
	waits map[string]int
	err   error
}

func (l *countingLimiter) Wait(_ context.Context, key string) error {
	l.waits[key]++
	return l.err
}

func TestClient_Limiter(t *testing.T) {
	s := testutil.NewRPCServer(t)
	limiter := &countingLimiter{waits: make(map[string]int)}

	c := newTestClient(s).(*client)
	c.limiter = limiter

	s.Handle(methodIsNodeReady, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: 429, Message: "too many requests"}
	})
	s.Handle(methodSendTransaction, func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return "txid", nil
	})

	// Every retry attempt waits on the limiter
	_, err := c.IsNodeReady(context.Background())
	assert.True(t, errors.Is(err, errRateLimited))
	assert.Equal(t, 3, limiter.waits[methodIsNodeReady])

	_, err = c.SendTransaction(context.Background(), NewTransaction(0, Message{}))
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.waits[methodSendTransaction])

	// A limiter failure stops the request before it is sent
	limiter.err = errors.New("limited")
	_, err = c.SendTransaction(context.Background(), NewTransaction(0, Message{}))
	assert.Error(t, err)
	assert.Equal(t, 1, s.CallCount(methodSendTransaction))
}
