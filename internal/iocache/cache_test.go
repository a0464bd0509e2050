package iocache_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gngeo/internal/iocache"
	"github.com/gnames/gngeo/internal/iotesting"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k1 := iocache.Key("search", "tor|IT")
	k2 := iocache.Key("search", "tor|IT")
	k3 := iocache.Key("search", "tor|FR")
	k4 := iocache.Key("nearest", "tor|IT")

	assert.True(t, strings.HasPrefix(k1, iocache.KeyPrefix+"search:"))
	assert.Len(t, k1, len(iocache.KeyPrefix+"search:")+36)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
}

func TestCache(t *testing.T) {
	cfg := iotesting.NewRedis(t)
	ctx := context.Background()

	c, err := iocache.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	pop := int64(870_456)
	val := []search.Place{{ID: 3165524, Name: "Turin", Population: &pop}}
	key := iocache.Key("search", "tur")

	var res []search.Place
	ok, err := c.Get(ctx, key, &res)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, val, time.Minute))
	ok, err = c.Get(ctx, key, &res)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, val, res)

	for i := range 1_200 {
		k := iocache.Key("search", strings.Repeat("x", i))
		require.NoError(t, c.Set(ctx, k, val, time.Minute))
	}
	require.NoError(t, c.Invalidate(ctx))

	ok, err = c.Get(ctx, key, &res)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewUnreachable(t *testing.T) {
	cfg := iotesting.Config(t).Cache
	cfg.Addr = "127.0.0.1:1"
	_, err := iocache.New(context.Background(), &cfg)
	assert.Error(t, err)
}
