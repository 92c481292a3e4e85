package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bqpools/pool-client/pkg/pools"
)

// Version is set at build time.
var Version = "dev"

// app holds the state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	cfgFile string
	jsonOut bool

	config Config

	// onConfig runs once the config is loaded. The CLI uses it to set up
	// logging; tests leave logging alone.
	onConfig func(Config)
}

// Execute runs the root command.
func Execute() {
	a := &app{
		v:        viper.GetViper(),
		out:      os.Stdout,
		errOut:   os.Stderr,
		onConfig: configureLogger,
	}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "poolctl",
		Short: "poolctl - create and list pools",
		Long: `poolctl connects a wallet and submits signed create_pool transactions
to a ledger node running the pool program.

Configuration (in order of priority):
  1. Command-line flags (--network, --rpc-url, ...)
  2. Environment variables (POOL_CLIENT_NETWORK, POOL_CLIENT_RPC_URL, ...)
  3. Config file (~/.poolctl.yaml)

Get started:
  $ poolctl pools check       # Check the program and pool account
  $ poolctl wallet connect    # Connect a wallet
  $ poolctl pools create ...  # Create a pool`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.poolctl.yaml)")
	flags.BoolVar(&a.jsonOut, "json", false, "output in JSON format")
	flags.String("network", defaultConfig.Network, "bitcoin network: mainnet, testnet or regtest")
	flags.String("rpc-url", defaultConfig.RPCURL, "ledger node JSON-RPC endpoint")
	flags.String("wallet-bridge-url", "", "external wallet bridge JSON-RPC endpoint")
	flags.String("program-pubkey", "", "pool program pubkey (hex)")
	flags.String("pool-account-pubkey", "", "pool account pubkey (hex)")
	flags.String("log-level", defaultConfig.LogLevel, "log level")

	for key, flag := range map[string]string{
		"network":                        "network",
		"rpc_url":                        "rpc-url",
		"wallet_bridge_url":              "wallet-bridge-url",
		pools.ProgramPubkeyConfigKey:     "program-pubkey",
		pools.PoolAccountPubkeyConfigKey: "pool-account-pubkey",
		"log_level":                      "log-level",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		a.versionCmd(),
		a.walletCmd(),
		a.poolsCmd(),
		a.accountCmd(),
		a.txCmd(),
	)

	return root
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "poolctl version %s\n", Version)
		},
	}
}

func (a *app) loadConfig() error {
	config, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return a.fail(err)
	}

	a.config = config
	if a.onConfig != nil {
		a.onConfig(config)
	}
	return nil
}

// fail prints the display text for err and returns it so cobra sets the
// exit status.
func (a *app) fail(err error) error {
	fmt.Fprintf(a.errOut, "Error: %s\n", pools.UserMessage(err))
	return err
}

// Output helpers

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}
