package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bqpools/pool-client/pkg/arch/pool"
	"github.com/bqpools/pool-client/pkg/pools"
)

type checkResult struct {
	NodeReady       bool   `json:"node_ready"`
	NodeError       string `json:"node_error,omitempty"`
	ProgramDeployed bool   `json:"program_deployed"`
	ProgramMessage  string `json:"program_message"`
	AccountCreated  bool   `json:"account_created"`
	AccountMessage  string `json:"account_message"`
}

type createResult struct {
	Txid      string `json:"txid"`
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

type listedPool struct {
	Pubkey    string `json:"pubkey"`
	Name      string `json:"name"`
	Liquidity string `json:"liquidity"`
	Status    string `json:"status"`
}

func (a *app) poolsCmd() *cobra.Command {
	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "Create and list pools",
		Long: `Pool commands.

Examples:
  poolctl pools check
  poolctl pools create --name "BQ Pool" --risk-type 3 --apy 120 \
      --min-period 86400 --asset-pubkey <hex> --asset-type 1 --investment-arm 10
  poolctl pools list --json`,
	}

	poolsCmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Check that the pool program and pool account are deployed",
			Args:  cobra.NoArgs,
			RunE:  a.runPoolsCheck,
		},
		a.poolsCreateCmd(),
		&cobra.Command{
			Use:   "list",
			Short: "List the pools registered with the pool program",
			Args:  cobra.NoArgs,
			RunE:  a.runPoolsList,
		},
	)

	return poolsCmd
}

func (a *app) poolsCreateCmd() *cobra.Command {
	var params pool.PoolParams

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pool",
		Long: `Create a pool by submitting a signed create_pool transaction.

The wallet is connected first if it is not already. Names are limited to 32
bytes unless --allow-truncate is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPoolsCreate(cmd, params)
		},
	}

	flags := createCmd.Flags()
	flags.StringVar(&params.Name, "name", "", "pool name")
	flags.StringVar(&params.RiskType, "risk-type", "0", "risk type (u8)")
	flags.StringVar(&params.APY, "apy", "0", "annual percentage yield (u64)")
	flags.StringVar(&params.MinPeriod, "min-period", "0", "minimum investment period in seconds (u64)")
	flags.StringVar(&params.AssetPubkey, "asset-pubkey", "", "asset pubkey (hex)")
	flags.StringVar(&params.AssetType, "asset-type", "0", "asset type (u8)")
	flags.StringVar(&params.InvestmentArm, "investment-arm", "0", "investment arm (u64)")
	flags.BoolVar(&params.AllowTruncate, "allow-truncate", false, "truncate names longer than 32 bytes")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("asset-pubkey")

	return createCmd
}

func (a *app) runPoolsCheck(cmd *cobra.Command, args []string) error {
	// Deployment checks never need a wallet.
	service := a.newService(nil)

	var result checkResult

	// Like the deployment checks, an unreachable node is reported rather
	// than failing the command.
	ready, err := service.NodeReady(cmd.Context())
	if err != nil {
		result.NodeError = pools.UserMessage(err)
	}
	result.NodeReady = ready

	program := service.CheckProgramDeployed(cmd.Context())
	result.ProgramDeployed = program.Deployed
	result.ProgramMessage = program.Message

	account := service.CheckAccountCreated(cmd.Context())
	result.AccountCreated = account.Deployed
	result.AccountMessage = account.Message

	if a.jsonOut {
		return a.printJSON(result)
	}

	w := a.newTable()
	fmt.Fprintf(w, "Node ready:\t%t\t%s\n", result.NodeReady, result.NodeError)
	fmt.Fprintf(w, "Program deployed:\t%t\t%s\n", result.ProgramDeployed, result.ProgramMessage)
	fmt.Fprintf(w, "Account created:\t%t\t%s\n", result.AccountCreated, result.AccountMessage)
	return w.Flush()
}

func (a *app) runPoolsCreate(cmd *cobra.Command, params pool.PoolParams) error {
	desc, err := pool.ParsePoolParams(params)
	if err != nil {
		return a.fail(err)
	}

	session, closeSession, err := a.newSession(cmd.Context())
	if err != nil {
		return a.fail(err)
	}
	defer closeSession()

	result, err := a.newService(session).CreatePool(cmd.Context(), desc)
	if err != nil {
		return a.fail(err)
	}

	out := createResult{
		Txid:      result.Txid,
		Signer:    result.Message.Signers[0].Hex(),
		Signature: result.Signature.Hex(),
	}

	if a.jsonOut {
		return a.printJSON(out)
	}

	w := a.newTable()
	fmt.Fprintf(w, "Pool:\t%s\n", desc.Name)
	fmt.Fprintf(w, "Signer:\t%s\n", out.Signer)
	fmt.Fprintf(w, "Txid:\t%s\n", out.Txid)
	return w.Flush()
}

func (a *app) runPoolsList(cmd *cobra.Command, args []string) error {
	found, err := a.newService(nil).ListPools(cmd.Context())
	if err != nil {
		return a.fail(err)
	}

	listed := make([]listedPool, 0, len(found))
	for _, p := range found {
		listed = append(listed, toListedPool(p))
	}

	if a.jsonOut {
		return a.printJSON(listed)
	}

	if len(listed) == 0 {
		fmt.Fprintln(a.out, "No pools found.")
		return nil
	}

	w := a.newTable()
	fmt.Fprintln(w, "PUBKEY\tNAME\tLIQUIDITY\tSTATUS")
	for _, p := range listed {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Pubkey, p.Name, p.Liquidity, p.Status)
	}
	return w.Flush()
}

func toListedPool(p *pools.Pool) listedPool {
	return listedPool{
		Pubkey:    p.Pubkey.Hex(),
		Name:      p.Name,
		Liquidity: p.Liquidity,
		Status:    p.Status,
	}
}
