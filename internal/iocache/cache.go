// Package iocache keeps search results in Redis.
//
// Values are gob-encoded. All keys share KeyPrefix, so the whole cache
// can be dropped without touching other data of the same Redis database.
package iocache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gnuuid"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix starts every cache key.
const KeyPrefix = "gngeo:"

// scanCount is a hint of how many keys one SCAN step returns.
const scanCount = 500

// Cache implements lifecycle.SearchCache.
type Cache struct {
	client *redis.Client
	enc    gnfmt.Encoder
}

var _ lifecycle.SearchCache = (*Cache)(nil)

// New connects to Redis described by the config.
func New(ctx context.Context, cfg *config.CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, ConnectError(cfg.Addr, err)
	}
	slog.Info("Connected to search cache", "addr", cfg.Addr, "db", cfg.DB)
	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client, enc: gnfmt.GNgob{}}
}

// Key builds a cache key of an operation. The fingerprint describes the
// query and is hashed into a UUID v5.
func Key(op, fingerprint string) string {
	return KeyPrefix + op + ":" + gnuuid.New(fingerprint).String()
}

// Get decodes a cached value into dst.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	bs, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, CacheError("get", err)
	}
	if err = c.enc.Decode(bs, dst); err != nil {
		return false, CacheError("decode", err)
	}
	return true, nil
}

// Set stores a value for ttl. Zero ttl keeps the value forever.
func (c *Cache) Set(ctx context.Context, key string, val any, ttl time.Duration) error {
	bs, err := c.enc.Encode(val)
	if err != nil {
		return CacheError("encode", err)
	}
	if err = c.client.Set(ctx, key, bs, ttl).Err(); err != nil {
		return CacheError("set", err)
	}
	return nil
}

// Invalidate removes every key with KeyPrefix.
func (c *Cache) Invalidate(ctx context.Context) error {
	var count int
	keys := make([]string, 0, scanCount)
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) < scanCount {
			continue
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return CacheError("invalidate", err)
		}
		count += len(keys)
		keys = keys[:0]
	}
	if err := iter.Err(); err != nil {
		return CacheError("invalidate", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return CacheError("invalidate", err)
		}
		count += len(keys)
	}
	slog.Info("Search cache invalidated", "keys", count)
	return nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
