package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bqpools/pool-client/pkg/arch"
)

type accountAddress struct {
	Pubkey  string `json:"pubkey"`
	Address string `json:"address"`
}

type transactionStatus struct {
	Txid          string   `json:"txid"`
	Status        string   `json:"status"`
	FailureReason string   `json:"failure_reason,omitempty"`
	BitcoinTxids  []string `json:"bitcoin_txids"`
}

func (a *app) accountCmd() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect ledger accounts",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "address <pubkey>",
		Short: "Show the bitcoin address assigned to an account",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runAccountAddress,
	})

	return accountCmd
}

func (a *app) txCmd() *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Inspect submitted transactions",
	}

	txCmd.AddCommand(&cobra.Command{
		Use:   "status <txid>",
		Short: "Show the processing status of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runTxStatus,
	})

	return txCmd
}

func (a *app) runAccountAddress(cmd *cobra.Command, args []string) error {
	pubkey, err := arch.PubkeyFromHex(args[0])
	if err != nil {
		return a.fail(err)
	}

	address, err := a.newService(nil).AccountAddress(cmd.Context(), pubkey)
	if err != nil {
		return a.fail(err)
	}

	if a.jsonOut {
		return a.printJSON(accountAddress{Pubkey: pubkey.Hex(), Address: address})
	}

	fmt.Fprintln(a.out, address)
	return nil
}

func (a *app) runTxStatus(cmd *cobra.Command, args []string) error {
	processed, err := a.newService(nil).TransactionStatus(cmd.Context(), args[0])
	if err != nil {
		return a.fail(err)
	}

	status := transactionStatus{
		Txid:          args[0],
		Status:        string(processed.Status),
		FailureReason: processed.FailureReason,
		BitcoinTxids:  processed.BitcoinTxids,
	}

	if a.jsonOut {
		return a.printJSON(status)
	}

	w := a.newTable()
	fmt.Fprintf(w, "Txid:\t%s\n", status.Txid)
	fmt.Fprintf(w, "Status:\t%s\n", status.Status)
	if status.FailureReason != "" {
		fmt.Fprintf(w, "Reason:\t%s\n", status.FailureReason)
	}
	for _, txid := range status.BitcoinTxids {
		fmt.Fprintf(w, "Bitcoin txid:\t%s\n", txid)
	}
	return w.Flush()
}
