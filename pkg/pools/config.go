package pools

import (
	"github.com/bqpools/pool-client/pkg/config"
	"github.com/bqpools/pool-client/pkg/config/env"
	"github.com/bqpools/pool-client/pkg/config/memory"
	"github.com/bqpools/pool-client/pkg/config/wrapper"
)

const (
	envConfigPrefix = "POOL_CLIENT_"

	ProgramPubkeyConfigKey     = "program_pubkey"
	ProgramPubkeyConfigEnvName = envConfigPrefix + "PROGRAM_PUBKEY"
	defaultProgramPubkey       = ""

	PoolAccountPubkeyConfigKey     = "pool_account_pubkey"
	PoolAccountPubkeyConfigEnvName = envConfigPrefix + "POOL_ACCOUNT_PUBKEY"
	defaultPoolAccountPubkey       = ""

	TransactionVersionConfigKey     = "tx_version"
	TransactionVersionConfigEnvName = envConfigPrefix + "TX_VERSION"
	defaultTransactionVersion       = 0

	AutoConnectConfigKey     = "auto_connect"
	AutoConnectConfigEnvName = envConfigPrefix + "AUTO_CONNECT"
	defaultAutoConnect       = true
)

type conf struct {
	programPubkey      config.String
	poolAccountPubkey  config.String
	transactionVersion config.Uint64
	autoConnect        config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			programPubkey:      env.NewStringConfig(ProgramPubkeyConfigEnvName, defaultProgramPubkey),
			poolAccountPubkey:  env.NewStringConfig(PoolAccountPubkeyConfigEnvName, defaultPoolAccountPubkey),
			transactionVersion: env.NewUint64Config(TransactionVersionConfigEnvName, defaultTransactionVersion),
			autoConnect:        env.NewBoolConfig(AutoConnectConfigEnvName, defaultAutoConnect),
		}
	}
}

// WithSourceConfigs returns configuration resolved by key from source, e.g.
// the CLI's viper settings.
func WithSourceConfigs(source config.Source) ConfigProvider {
	return func() *conf {
		return &conf{
			programPubkey:      wrapper.NewStringConfig(source.Config(ProgramPubkeyConfigKey), defaultProgramPubkey),
			poolAccountPubkey:  wrapper.NewStringConfig(source.Config(PoolAccountPubkeyConfigKey), defaultPoolAccountPubkey),
			transactionVersion: wrapper.NewUint64Config(source.Config(TransactionVersionConfigKey), defaultTransactionVersion),
			autoConnect:        wrapper.NewBoolConfig(source.Config(AutoConnectConfigKey), defaultAutoConnect),
		}
	}
}

// StaticConfigs are fixed configuration values.
type StaticConfigs struct {
	ProgramPubkey      string
	PoolAccountPubkey  string
	TransactionVersion uint64
	DisableAutoConnect bool
}

// WithStaticConfigs returns configuration with fixed values
func WithStaticConfigs(static StaticConfigs) ConfigProvider {
	return WithSourceConfigs(memory.NewSource(map[string]interface{}{
		ProgramPubkeyConfigKey:      static.ProgramPubkey,
		PoolAccountPubkeyConfigKey:  static.PoolAccountPubkey,
		TransactionVersionConfigKey: static.TransactionVersion,
		AutoConnectConfigKey:        !static.DisableAutoConnect,
	}))
}
