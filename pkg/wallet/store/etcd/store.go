package etcd

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	v3 "go.etcd.io/etcd/client/v3"

	"github.com/bqpools/pool-client/pkg/wallet/store"
)

const (
	DefaultPrefix = "/pool-client/wallet/"
)

type etcdStore struct {
	client *v3.Client
	prefix string
}

// New returns a store.Store backed by etcd. Keys are namespaced under prefix,
// which defaults to DefaultPrefix when empty.
func New(client *v3.Client, prefix string) store.Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &etcdStore{
		client: client,
		prefix: prefix,
	}
}

// Get implements store.Store.Get
func (s *etcdStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := s.client.Get(ctx, s.prefix+key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s", key)
	}
	if len(resp.Kvs) == 0 {
		return nil, store.ErrNotFound
	}

	return resp.Kvs[0].Value, nil
}

// Put implements store.Store.Put
func (s *etcdStore) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.client.Put(ctx, s.prefix+key, string(value)); err != nil {
		return errors.Wrapf(err, "failed to put %s", key)
	}
	return nil
}

// Delete implements store.Store.Delete
func (s *etcdStore) Delete(ctx context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.client.Delete(ctx, s.prefix+key); err != nil {
		return errors.Wrapf(err, "failed to delete %s", key)
	}
	return nil
}
