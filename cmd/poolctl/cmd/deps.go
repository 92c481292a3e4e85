package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
	v3 "go.etcd.io/etcd/client/v3"
	xrate "golang.org/x/time/rate"

	"github.com/bqpools/pool-client/pkg/arch"
	"github.com/bqpools/pool-client/pkg/config/viperconf"
	"github.com/bqpools/pool-client/pkg/keys"
	"github.com/bqpools/pool-client/pkg/pools"
	"github.com/bqpools/pool-client/pkg/rate"
	"github.com/bqpools/pool-client/pkg/wallet"
	"github.com/bqpools/pool-client/pkg/wallet/extension"
	"github.com/bqpools/pool-client/pkg/wallet/store"
	etcd_store "github.com/bqpools/pool-client/pkg/wallet/store/etcd"
	file_store "github.com/bqpools/pool-client/pkg/wallet/store/file"
	memory_store "github.com/bqpools/pool-client/pkg/wallet/store/memory"
)

const etcdDialTimeout = 5 * time.Second

var errMissingWalletBridge = errors.New("wallet_bridge_url is required outside regtest")

func (a *app) rpcOptions() *jsonrpc.RPCClientOpts {
	return &jsonrpc.RPCClientOpts{
		HTTPClient: &http.Client{Timeout: a.config.RPCTimeout},
	}
}

func (a *app) newStore() (store.Store, func(), error) {
	switch a.config.StateStore {
	case stateStoreFile:
		return file_store.New(a.config.StateDir), func() {}, nil
	case stateStoreMemory:
		return memory_store.New(), func() {}, nil
	case stateStoreEtcd:
		client, err := v3.New(v3.Config{
			Endpoints:   a.config.EtcdEndpoints,
			DialTimeout: etcdDialTimeout,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to etcd")
		}
		return etcd_store.New(client, a.config.EtcdPrefix), func() { client.Close() }, nil
	}

	return nil, nil, errors.Errorf("unknown state store %q", a.config.StateStore)
}

func (a *app) newSession(ctx context.Context) (*wallet.Session, func(), error) {
	network, err := keys.ParseNetwork(a.config.Network)
	if err != nil {
		return nil, nil, err
	}

	var external wallet.ExternalWallet
	if !network.IsLocal() {
		if a.config.WalletBridgeURL == "" {
			return nil, nil, errMissingWalletBridge
		}
		external = extension.NewWithRPCOptions(a.config.WalletBridgeURL, a.rpcOptions())
	}

	s, closeStore, err := a.newStore()
	if err != nil {
		return nil, nil, err
	}

	session, err := wallet.NewSession(ctx, network, s, external)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return session, closeStore, nil
}

func (a *app) newArchClient() arch.Client {
	var limiter rate.Limiter = &rate.NoLimiter{}
	if a.config.RPCRateLimit > 0 {
		limiter = rate.NewLocalRateLimiter(xrate.Limit(a.config.RPCRateLimit))
	}

	return arch.NewWithLimiter(a.config.RPCURL, a.rpcOptions(), limiter)
}

func (a *app) newService(w pools.Wallet) *pools.Service {
	return pools.NewService(
		a.newArchClient(),
		w,
		pools.WithSourceConfigs(viperconf.NewSource(a.v)),
	)
}
