package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bqpools/pool-client/pkg/wallet/store/tests"
)

func TestWalletFileStore(t *testing.T) {
	dir := t.TempDir()

	testStore := New(dir)
	teardown := func() {
		require.NoError(t, os.RemoveAll(dir))
	}
	tests.RunTests(t, testStore, teardown)
}

func TestWalletFileStore_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := New(dir)

	require.NoError(t, s.Put(context.Background(), "walletState", []byte("{}")))

	info, err := os.Stat(filepath.Join(dir, "walletState.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
