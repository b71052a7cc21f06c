//go:build integration

package test

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/fitledger/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestStoresRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()

	stores := map[string]storage.Store{
		"redis":    storage.NewRedisStore(s.redisClient),
		"postgres": storage.NewPostgresStore(s.pgPool),
	}
	for name, store := range stores {
		key := "fitledger:it:" + name

		_, err := store.Load(ctx, key)
		assert.True(t, errors.Is(err, storage.ErrNotFound), name)

		require.NoError(t, store.Save(ctx, key, []byte(`{"v":1}`)), name)
		require.NoError(t, store.Save(ctx, key, []byte(`{"v":2}`)), name)

		data, err := store.Load(ctx, key)
		require.NoError(t, err, name)
		assert.JSONEq(t, `{"v":2}`, string(data), name)
	}
}
