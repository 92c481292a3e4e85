package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bqpools/pool-client/pkg/wallet/store"
)

func RunTests(t *testing.T, s store.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s store.Store){
		testRoundTrip,
		testOverwrite,
		testDelete,
		testIsolation,
		testInvalidKey,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s store.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.Get(ctx, "walletState")
		assert.Equal(t, store.ErrNotFound, err)
		assert.Nil(t, actual)

		expected := []byte(`{"isConnected":true}`)
		require.NoError(t, s.Put(ctx, "walletState", expected))

		actual, err = s.Get(ctx, "walletState")
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		// Mutating the returned value must not affect the store.
		actual[0] = 'x'
		actual, err = s.Get(ctx, "walletState")
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	})
}

func testOverwrite(t *testing.T, s store.Store) {
	t.Run("testOverwrite", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "walletState", []byte("first")))
		require.NoError(t, s.Put(ctx, "walletState", []byte("second")))

		actual, err := s.Get(ctx, "walletState")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), actual)
	})
}

func testDelete(t *testing.T, s store.Store) {
	t.Run("testDelete", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Delete(ctx, "walletState"))

		require.NoError(t, s.Put(ctx, "walletState", []byte("value")))
		require.NoError(t, s.Delete(ctx, "walletState"))

		_, err := s.Get(ctx, "walletState")
		assert.Equal(t, store.ErrNotFound, err)

		require.NoError(t, s.Delete(ctx, "walletState"))
	})
}

func testIsolation(t *testing.T, s store.Store) {
	t.Run("testIsolation", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "a", []byte("1")))
		require.NoError(t, s.Put(ctx, "b", []byte("2")))
		require.NoError(t, s.Delete(ctx, "a"))

		_, err := s.Get(ctx, "a")
		assert.Equal(t, store.ErrNotFound, err)

		actual, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), actual)

		require.NoError(t, s.Delete(ctx, "b"))
	})
}

func testInvalidKey(t *testing.T, s store.Store) {
	t.Run("testInvalidKey", func(t *testing.T) {
		ctx := context.Background()

		for _, key := range []string{"", "a/b", `a\b`} {
			assert.ErrorIs(t, s.Put(ctx, key, []byte("v")), store.ErrInvalidKey)

			_, err := s.Get(ctx, key)
			assert.ErrorIs(t, err, store.ErrInvalidKey)

			assert.ErrorIs(t, s.Delete(ctx, key), store.ErrInvalidKey)
		}
	})
}
