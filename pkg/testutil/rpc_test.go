package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

func TestRPCServer(t *testing.T) {
	s := NewRPCServer(t)
	client := jsonrpc.NewClient(s.URL)

	s.Handle("echo", func(params json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		var values []string
		if err := json.Unmarshal(params, &values); err != nil {
			return nil, &jsonrpc.RPCError{Code: -32602, Message: err.Error()}
		}
		return values[0], nil
	})

	var out string
	require.NoError(t, client.CallFor(&out, "echo", "hello"))
	assert.Equal(t, "hello", out)
	assert.Equal(t, 1, s.CallCount("echo"))
	assert.Equal(t, `["hello"]`, string(s.LastParams("echo")))

	err := client.CallFor(&out, "missing")
	rpcErr, ok := err.(*jsonrpc.RPCError)
	require.True(t, ok)
	assert.Equal(t, -32601, rpcErr.Code)

	assert.Equal(t, 0, s.CallCount("unknown"))
	assert.Nil(t, s.LastParams("unknown"))
}
