package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bqpools/pool-client/pkg/arch"
	"github.com/bqpools/pool-client/pkg/pools"
)

const (
	envPrefix = "POOL_CLIENT_"

	stateStoreFile   = "file"
	stateStoreEtcd   = "etcd"
	stateStoreMemory = "memory"
)

// Config is the CLI configuration. Pool program settings (program_pubkey,
// pool_account_pubkey, tx_version, auto_connect) are read directly from
// viper by the pools service.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Network string `mapstructure:"network"`

	RPCURL     string        `mapstructure:"rpc_url"`
	RPCTimeout time.Duration `mapstructure:"rpc_timeout"`

	// RPCRateLimit caps requests per second for each RPC method. Zero
	// disables the limit.
	RPCRateLimit float64 `mapstructure:"rpc_rate_limit"`

	// WalletBridgeURL is the JSON-RPC endpoint of the external wallet
	// bridge. It is required on every network but regtest.
	WalletBridgeURL string `mapstructure:"wallet_bridge_url"`

	StateStore    string   `mapstructure:"state_store"`
	StateDir      string   `mapstructure:"state_dir"`
	EtcdEndpoints []string `mapstructure:"etcd_endpoints"`
	EtcdPrefix    string   `mapstructure:"etcd_prefix"`
}

var defaultConfig = Config{
	LogLevel:  "warn",
	LogFormat: "text",

	Network: "regtest",

	RPCURL:     string(arch.EnvironmentLocal),
	RPCTimeout: 30 * time.Second,

	StateStore: stateStoreFile,
}

var configKeys = []string{
	"log_level",
	"log_format",
	"network",
	"rpc_url",
	"rpc_timeout",
	"rpc_rate_limit",
	"wallet_bridge_url",
	"state_store",
	"state_dir",
	"etcd_endpoints",
	"etcd_prefix",
	pools.ProgramPubkeyConfigKey,
	pools.PoolAccountPubkeyConfigKey,
	pools.TransactionVersionConfigKey,
	pools.AutoConnectConfigKey,
}

// loadConfig reads the config file, if any, and binds every key to its
// POOL_CLIENT_ environment variable.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".poolctl")
	}

	for _, key := range configKeys {
		_ = v.BindEnv(key, envPrefix+strings.ToUpper(key))
	}

	// An explicitly set config file that does not exist is an error; a
	// missing default one is not.
	err := v.ReadInConfig()
	_, isConfigNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !isConfigNotFound {
		return Config{}, errors.Wrap(err, "failed to load config")
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}

	if config.StateDir == "" {
		config.StateDir = defaultStateDir()
	}

	return config, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".poolctl"
	}
	return filepath.Join(home, ".poolctl")
}

func configureLogger(config Config) {
	if strings.EqualFold(config.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	// Command output goes to stdout.
	logrus.SetOutput(os.Stderr)
}
