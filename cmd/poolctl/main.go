// poolctl is the command-line interface for creating and listing pools.
//
// It connects a wallet, checks that the pool program and pool account are
// deployed, and submits signed create_pool transactions to a ledger node.
package main

import "github.com/bqpools/pool-client/cmd/poolctl/cmd"

func main() {
	cmd.Execute()
}
