package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bqpools/pool-client/pkg/wallet/store"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

type fileStore struct {
	dir string
}

// New returns a store.Store keeping one file per key under dir. The directory
// is created on first write. Files are written owner-only, since a cached
// local wallet includes its private key.
func New(dir string) store.Store {
	return &fileStore{
		dir: dir,
	}
}

// Get implements store.Store.Get
func (s *fileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}

	return value, nil
}

// Put implements store.Store.Put
//
// The value is written to a temporary file and renamed into place, so readers
// never observe a partial write.
func (s *fileStore) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return errors.Wrap(err, "failed to create store directory")
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to set file permissions")
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", key)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to sync %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", key)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return errors.Wrapf(err, "failed to replace %s", key)
	}
	return nil
}

// Delete implements store.Store.Delete
func (s *fileStore) Delete(ctx context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete %s", key)
	}
	return nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
