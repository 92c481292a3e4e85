package viperconf

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bqpools/pool-client/pkg/config"
	"github.com/bqpools/pool-client/pkg/config/wrapper"
)

func TestSource(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
network: testnet
tx_version: 2
`)))
	v.SetDefault("rpc_url", "http://localhost:9002")

	s := NewSource(v)

	assert.Equal(t, "testnet", wrapper.NewStringConfig(s.Config("network"), "regtest").Get(context.Background()))
	assert.EqualValues(t, 2, wrapper.NewUint64Config(s.Config("tx_version"), 0).Get(context.Background()))
	assert.Equal(t, "http://localhost:9002", wrapper.NewStringConfig(s.Config("rpc_url"), "").Get(context.Background()))

	_, err := s.Config("program_pubkey").Get(context.Background())
	assert.Equal(t, config.ErrNoValue, err)

	// Later overrides are observed without rebuilding the config
	v.Set("program_pubkey", "abcd")
	val, err := s.Config("program_pubkey").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), val)
}
