package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bqpools/pool-client/pkg/wallet"
)

type walletStatus struct {
	Connected bool   `json:"connected"`
	Network   string `json:"network"`
	Mode      string `json:"mode,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
	Address   string `json:"address,omitempty"`
}

func (a *app) walletCmd() *cobra.Command {
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the wallet connection",
		Long: `Wallet connection commands.

On regtest a fresh key pair is generated locally on every connect. On other
networks the external wallet bridge is asked for an ordinals address.

Examples:
  poolctl wallet connect
  poolctl wallet status --json
  poolctl wallet disconnect`,
	}

	walletCmd.AddCommand(
		&cobra.Command{
			Use:   "connect",
			Short: "Connect a wallet",
			Args:  cobra.NoArgs,
			RunE:  a.runWalletConnect,
		},
		&cobra.Command{
			Use:   "disconnect",
			Short: "Disconnect the wallet and clear the cached state",
			Args:  cobra.NoArgs,
			RunE:  a.runWalletDisconnect,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the wallet connection",
			Args:  cobra.NoArgs,
			RunE:  a.runWalletStatus,
		},
	)

	return walletCmd
}

func (a *app) runWalletConnect(cmd *cobra.Command, args []string) error {
	session, closeSession, err := a.newSession(cmd.Context())
	if err != nil {
		return a.fail(err)
	}
	defer closeSession()

	if err := session.Connect(cmd.Context()); err != nil {
		return a.fail(err)
	}
	return a.printWalletStatus(session)
}

func (a *app) runWalletDisconnect(cmd *cobra.Command, args []string) error {
	session, closeSession, err := a.newSession(cmd.Context())
	if err != nil {
		return a.fail(err)
	}
	defer closeSession()

	if err := session.Disconnect(cmd.Context()); err != nil {
		return a.fail(err)
	}
	return a.printWalletStatus(session)
}

func (a *app) runWalletStatus(cmd *cobra.Command, args []string) error {
	session, closeSession, err := a.newSession(cmd.Context())
	if err != nil {
		return a.fail(err)
	}
	defer closeSession()

	return a.printWalletStatus(session)
}

func (a *app) printWalletStatus(session *wallet.Session) error {
	state := session.State()

	status := walletStatus{
		Connected: state.IsConnected,
		Network:   session.Network().String(),
		Mode:      string(state.Mode),
		Address:   state.Address,
	}
	if state.PublicKey != nil {
		status.PublicKey = state.PublicKey.Hex()
	}

	if a.jsonOut {
		return a.printJSON(status)
	}

	if !status.Connected {
		fmt.Fprintf(a.out, "Wallet: disconnected (%s)\n", status.Network)
		return nil
	}

	w := a.newTable()
	fmt.Fprintf(w, "Wallet:\tconnected (%s)\n", status.Network)
	fmt.Fprintf(w, "Mode:\t%s\n", status.Mode)
	fmt.Fprintf(w, "Public key:\t%s\n", status.PublicKey)
	fmt.Fprintf(w, "Address:\t%s\n", status.Address)
	return w.Flush()
}
