package pools

import (
	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/arch"
	"github.com/bqpools/pool-client/pkg/arch/pool"
	"github.com/bqpools/pool-client/pkg/keys"
	"github.com/bqpools/pool-client/pkg/wallet"
)

const (
	programNotDeployedMessage    = "The pool program has not been deployed to the network yet. Please run `arch-cli deploy`."
	poolAccountNotCreatedMessage = "The pool account has not been created yet. Please run the account creation command."
)

// UserMessage returns display text for err. Errors without a dedicated
// message fall back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var rejected *arch.SubmissionRejectedError
	if errors.As(err, &rejected) {
		return "The node rejected the transaction: " + rejected.Message
	}

	switch {
	case errors.Is(err, wallet.ErrWalletConnectionRejected):
		return "The wallet did not approve the connection. Approve the request in your wallet and try again."
	case errors.Is(err, wallet.ErrNotConnected):
		return "No wallet is connected. Connect a wallet first."
	case errors.Is(err, wallet.ErrSigningFailed):
		return "The wallet could not sign the transaction."
	case errors.Is(err, ErrProgramNotConfigured):
		return "No pool program is configured. Set program_pubkey."
	case errors.Is(err, ErrPoolAccountNotConfigured):
		return "No pool account is configured. Set pool_account_pubkey."
	case errors.Is(err, ErrInvalidTransactionVersion):
		return "The configured transaction version is invalid."
	case errors.Is(err, arch.ErrNoAccountInfo):
		return "The account has not been deployed to the network."
	case errors.Is(err, arch.ErrDanglingSigner), errors.Is(err, ErrSignatureCountMismatch):
		return "The transaction is missing a required signature."
	case errors.Is(err, pool.ErrInvalidNameLength):
		return "Pool names are limited to 32 bytes."
	case errors.Is(err, pool.ErrFieldOutOfRange):
		return "A pool field is out of range: " + err.Error()
	case errors.Is(err, keys.ErrInvalidKeyLength):
		return "Keys must be 32 bytes, hex encoded."
	case errors.Is(err, pool.ErrInvalidPoolList):
		return "The pool program returned an unreadable pool list."
	}

	return err.Error()
}
