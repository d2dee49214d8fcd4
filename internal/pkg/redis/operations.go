package redis

import (
	"context"
	"time"
)

// Set stores a key with an expiration (0 means no expiry)
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.rdb == nil {
		return ErrNotInitialized
	}
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Get returns the string value of a key
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.rdb == nil {
		return "", ErrNotInitialized
	}
	return c.rdb.Get(ctx, key).Result()
}

// Del removes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	if c.rdb == nil {
		return 0, ErrNotInitialized
	}
	return c.rdb.Del(ctx, keys...).Result()
}

// Exists reports how many of the given keys exist
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	if c.rdb == nil {
		return 0, ErrNotInitialized
	}
	return c.rdb.Exists(ctx, keys...).Result()
}

// Expire sets a TTL on a key
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	if c.rdb == nil {
		return false, ErrNotInitialized
	}
	return c.rdb.Expire(ctx, key, expiration).Result()
}

// TTL returns the remaining TTL of a key
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	if c.rdb == nil {
		return 0, ErrNotInitialized
	}
	return c.rdb.TTL(ctx, key).Result()
}

// Incr increments the integer value of a key by one
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	if c.rdb == nil {
		return 0, ErrNotInitialized
	}
	return c.rdb.Incr(ctx, key).Result()
}

// SetNX stores a key only when it does not exist yet
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if c.rdb == nil {
		return false, ErrNotInitialized
	}
	return c.rdb.SetNX(ctx, key, value, expiration).Result()
}

// Eval runs a Lua script atomically on the server
func (c *Client) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	if c.rdb == nil {
		return nil, ErrNotInitialized
	}
	return c.rdb.Eval(ctx, script, keys, args...).Result()
}
