package pools

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bqpools/pool-client/pkg/arch"
)

var (
	ErrSignatureCountMismatch = errors.New("signature count does not match signer count")
)

// AccountStatus is the soft result of a deployment check. A missing account
// and a failed read both report Deployed == false.
type AccountStatus struct {
	Deployed bool
	Message  string

	// Err is the read failure, if any. It is nil for a missing account.
	Err error
}

// Submitter packages signed messages into transactions and hands them to
// the ledger node.
type Submitter struct {
	log    *logrus.Entry
	client arch.Client
}

func NewSubmitter(client arch.Client) *Submitter {
	return &Submitter{
		log:    logrus.StandardLogger().WithField("type", "pools/submitter"),
		client: client,
	}
}

// Submit sends msg with its signatures exactly once and returns the txid.
//
// A node side rejection is returned as *arch.SubmissionRejectedError. The
// caller decides whether resubmitting is safe.
func (s *Submitter) Submit(ctx context.Context, msg arch.Message, signatures []arch.Signature, version uint32) (string, error) {
	if len(signatures) != len(msg.Signers) {
		return "", errors.Wrapf(ErrSignatureCountMismatch, "%d signers, %d signatures", len(msg.Signers), len(signatures))
	}

	txn := arch.NewTransaction(version, msg, signatures...)

	log := s.log.WithFields(logrus.Fields{
		"method":       "Submit",
		"version":      version,
		"instructions": len(msg.Instructions),
	})

	txid, err := s.client.SendTransaction(ctx, txn)
	if err != nil {
		log.WithError(err).Warn("failure submitting transaction")
		return "", err
	}

	log.WithField("txid", txid).Info("transaction submitted")
	return txid, nil
}

// CheckAccountDeployed reports whether the account exists on the ledger.
func (s *Submitter) CheckAccountDeployed(ctx context.Context, account arch.Pubkey) AccountStatus {
	log := s.log.WithFields(logrus.Fields{
		"method":  "CheckAccountDeployed",
		"account": account.Hex(),
	})

	info, err := s.client.ReadAccountInfo(ctx, account)
	switch {
	case err == nil:
		log.WithField("executable", info.IsExecutable).Debug("account found")
		return AccountStatus{
			Deployed: true,
			Message:  "Account " + account.Hex() + " is deployed.",
		}
	case errors.Is(err, arch.ErrNoAccountInfo):
		log.Debug("account not found")
		return AccountStatus{
			Message: "Account " + account.Hex() + " has not been deployed.",
		}
	default:
		log.WithError(err).Warn("failure reading account")
		return AccountStatus{
			Message: "Account " + account.Hex() + " could not be read: " + err.Error(),
			Err:     err,
		}
	}
}
