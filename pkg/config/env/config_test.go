package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bqpools/pool-client/pkg/config"
)

func TestConfigDoesntExist(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"
	t.Setenv(env, "default")

	c := NewConfig(env)

	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("default"), v)

	t.Setenv(env, "")

	v, err = c.Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedHelpers(t *testing.T) {
	t.Setenv("ENV_CONFIG_TEST_TIMEOUT", "45s")
	t.Setenv("ENV_CONFIG_TEST_ENABLED", "true")

	assert.Equal(t, 45*time.Second, NewDurationConfig("env_config_test_timeout", time.Second).Get(context.Background()))
	assert.True(t, NewBoolConfig("ENV_CONFIG_TEST_ENABLED", false).Get(context.Background()))
	assert.EqualValues(t, 9, NewUint64Config("ENV_CONFIG_TEST_UNSET", 9).Get(context.Background()))
	assert.Equal(t, "x", NewStringConfig("ENV_CONFIG_TEST_UNSET", "x").Get(context.Background()))
}
