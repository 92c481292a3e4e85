//go:build integration

package etcd

import (
	"context"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
	v3 "go.etcd.io/etcd/client/v3"

	"github.com/bqpools/pool-client/pkg/etcdtest"
	"github.com/bqpools/pool-client/pkg/wallet/store/tests"
)

var (
	testClient *v3.Client
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	client, teardown, err := etcdtest.StartEtcd(pool)
	if err != nil {
		log.WithError(err).Error("Error starting etcd")
		teardown()
		os.Exit(1)
	}
	testClient = client

	code := m.Run()
	teardown()
	os.Exit(code)
}

func TestWalletEtcdStore(t *testing.T) {
	testStore := New(testClient, "/test/wallet")
	teardown := func() {
		_, err := testClient.Delete(context.Background(), "/test/wallet/", v3.WithPrefix())
		if err != nil {
			t.Fatal(err)
		}
	}
	tests.RunTests(t, testStore, teardown)
}
