// Package pools implements the pool flows on top of a ledger client and a
// wallet: deployment checks, pool creation and pool listing.
package pools

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bqpools/pool-client/pkg/arch"
	"github.com/bqpools/pool-client/pkg/arch/pool"
	"github.com/bqpools/pool-client/pkg/keys"
	"github.com/bqpools/pool-client/pkg/wallet"
)

var (
	ErrProgramNotConfigured      = errors.New("pool program pubkey not configured")
	ErrPoolAccountNotConfigured  = errors.New("pool account pubkey not configured")
	ErrInvalidTransactionVersion = errors.New("invalid transaction version")
)

// Wallet is the signing side of a wallet session.
type Wallet interface {
	Connect(ctx context.Context) error
	PublicKey() (keys.PublicKey, bool)
	SignMessage(ctx context.Context, msg arch.Message) (arch.Signature, error)
}

// CreatePoolResult is the outcome of a successful pool creation.
type CreatePoolResult struct {
	Txid      string
	Message   arch.Message
	Signature arch.Signature
}

// Pool is a pool listed by the pool program.
type Pool struct {
	Pubkey    arch.Pubkey
	Name      string
	Liquidity string
	Status    string
}

type Service struct {
	log       *logrus.Entry
	conf      *conf
	client    arch.Client
	wallet    Wallet
	submitter *Submitter
}

func NewService(client arch.Client, wallet Wallet, configProvider ConfigProvider) *Service {
	return &Service{
		log:       logrus.StandardLogger().WithField("type", "pools/service"),
		conf:      configProvider(),
		client:    client,
		wallet:    wallet,
		submitter: NewSubmitter(client),
	}
}

// NodeReady reports whether the ledger node accepts requests.
func (s *Service) NodeReady(ctx context.Context) (bool, error) {
	return s.client.IsNodeReady(ctx)
}

// CheckProgramDeployed reports whether the configured pool program exists.
func (s *Service) CheckProgramDeployed(ctx context.Context) AccountStatus {
	program, err := s.programPubkey(ctx)
	if err != nil {
		return AccountStatus{Message: UserMessage(err), Err: err}
	}

	status := s.submitter.CheckAccountDeployed(ctx, program)
	if !status.Deployed && status.Err == nil {
		status.Message = programNotDeployedMessage
	}
	return status
}

// CheckAccountCreated reports whether the configured pool account exists.
func (s *Service) CheckAccountCreated(ctx context.Context) AccountStatus {
	account, err := s.poolAccountPubkey(ctx)
	if err != nil {
		return AccountStatus{Message: UserMessage(err), Err: err}
	}

	status := s.submitter.CheckAccountDeployed(ctx, account)
	if !status.Deployed && status.Err == nil {
		status.Message = poolAccountNotCreatedMessage
	}
	return status
}

// CreatePool connects the wallet if needed, then builds, signs and submits a
// create_pool instruction for desc.
func (s *Service) CreatePool(ctx context.Context, desc *pool.PoolDescriptor) (*CreatePoolResult, error) {
	log := s.log.WithFields(logrus.Fields{
		"method": "CreatePool",
		"pool":   desc.Name,
	})

	program, err := s.programPubkey(ctx)
	if err != nil {
		return nil, err
	}
	poolAccount, err := s.poolAccountPubkey(ctx)
	if err != nil {
		return nil, err
	}
	version, err := s.transactionVersion(ctx)
	if err != nil {
		return nil, err
	}

	pub, err := s.signerPubkey(ctx)
	if err != nil {
		return nil, err
	}
	signer := arch.PubkeyFromKey(pub)
	log = log.WithField("signer", signer.Hex())

	instruction := pool.NewCreatePoolInstruction(
		&pool.CreatePoolInstructionAccounts{
			Program: program,
			Signer:  signer,
			Pool:    poolAccount,
		},
		&pool.CreatePoolInstructionArgs{
			Descriptor: *desc,
		},
	)

	msg, err := arch.NewMessage([]arch.Pubkey{signer}, instruction)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build message")
	}

	signature, err := s.wallet.SignMessage(ctx, msg)
	if err != nil {
		log.WithError(err).Warn("failure signing message")
		return nil, err
	}

	txid, err := s.submitter.Submit(ctx, msg, []arch.Signature{signature}, version)
	if err != nil {
		return nil, err
	}

	log.WithField("txid", txid).Info("pool created")
	return &CreatePoolResult{
		Txid:      txid,
		Message:   msg,
		Signature: signature,
	}, nil
}

// ListPools returns the pools registered with the pool program. Pools whose
// account cannot be read or decoded are skipped.
func (s *Service) ListPools(ctx context.Context) ([]*Pool, error) {
	log := s.log.WithField("method", "ListPools")

	program, err := s.programPubkey(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.client.ReadAccountInfo(ctx, program)
	if err != nil {
		return nil, err
	}

	var list pool.PoolListAccount
	if err := list.Unmarshal(info.Data); err != nil {
		return nil, err
	}

	pools := make([]*Pool, 0, len(list.Pools))
	for _, pubkey := range list.Pools {
		log := log.WithField("pool", pubkey.Hex())

		info, err := s.client.ReadAccountInfo(ctx, pubkey)
		if err != nil {
			log.WithError(err).Warn("skipping unreadable pool account")
			continue
		}

		var account pool.PoolAccount
		if err := account.Unmarshal(info.Data); err != nil {
			log.WithError(err).Warn("skipping malformed pool account")
			continue
		}

		pools = append(pools, &Pool{
			Pubkey:    pubkey,
			Name:      account.Name,
			Liquidity: account.Liquidity,
			Status:    account.Status,
		})
	}

	return pools, nil
}

// AccountAddress returns the bitcoin address the ledger assigns to account.
func (s *Service) AccountAddress(ctx context.Context, account arch.Pubkey) (string, error) {
	return s.client.GetAccountAddress(ctx, account)
}

// TransactionStatus returns the node's view of a submitted transaction.
func (s *Service) TransactionStatus(ctx context.Context, txid string) (*arch.ProcessedTransaction, error) {
	return s.client.GetProcessedTransaction(ctx, txid)
}

func (s *Service) signerPubkey(ctx context.Context) (keys.PublicKey, error) {
	if pub, ok := s.wallet.PublicKey(); ok {
		return pub, nil
	}

	if !s.conf.autoConnect.Get(ctx) {
		return keys.PublicKey{}, wallet.ErrNotConnected
	}
	if err := s.wallet.Connect(ctx); err != nil {
		return keys.PublicKey{}, err
	}

	pub, ok := s.wallet.PublicKey()
	if !ok {
		return keys.PublicKey{}, wallet.ErrNotConnected
	}
	return pub, nil
}

func (s *Service) programPubkey(ctx context.Context) (arch.Pubkey, error) {
	value := s.conf.programPubkey.Get(ctx)
	if len(value) == 0 {
		return arch.Pubkey{}, ErrProgramNotConfigured
	}

	pubkey, err := arch.PubkeyFromHex(value)
	if err != nil {
		return arch.Pubkey{}, errors.Wrap(err, "invalid pool program pubkey")
	}
	return pubkey, nil
}

func (s *Service) poolAccountPubkey(ctx context.Context) (arch.Pubkey, error) {
	value := s.conf.poolAccountPubkey.Get(ctx)
	if len(value) == 0 {
		return arch.Pubkey{}, ErrPoolAccountNotConfigured
	}

	pubkey, err := arch.PubkeyFromHex(value)
	if err != nil {
		return arch.Pubkey{}, errors.Wrap(err, "invalid pool account pubkey")
	}
	return pubkey, nil
}

func (s *Service) transactionVersion(ctx context.Context) (uint32, error) {
	version, err := s.conf.transactionVersion.GetSafe(ctx)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidTransactionVersion, err.Error())
	}
	if version > math.MaxUint32 {
		return 0, errors.Wrapf(ErrInvalidTransactionVersion, "%d does not fit in 32 bits", version)
	}
	return uint32(version), nil
}
