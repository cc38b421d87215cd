package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/testing/suite"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects to a running server", func(t *testing.T) {
		// Given: a redis container
		ctx, st := suite.New(t)

		// When: opening the storage on its address
		storage, err := NewRedisStorage(ctx, st.Storage.Options().Addr)

		// Then: the client is usable and closes cleanly
		require.NoError(t, err)
		require.NoError(t, storage.Connection.Ping(ctx).Err())
		assert.NoError(t, storage.Close())
	})

	t.Run("Fails fast when nothing listens", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		start := time.Now()
		_, err := NewRedisStorage(ctx, "127.0.0.1:1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "127.0.0.1:1")
		assert.Less(t, time.Since(start), 10*time.Second)
	})
}
