package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// Predefined errors
var (
	ErrNil            = redis.Nil // key does not exist
	ErrClosed         = errors.New("redis: client is closed")
	ErrInvalidConfig  = errors.New("redis: invalid configuration")
	ErrNotInitialized = errors.New("redis: client not initialized")
)

// IsNil checks whether the error is a missing-key error
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// IsClosed checks whether the error is a closed-client error
func IsClosed(err error) bool {
	return errors.Is(err, redis.ErrClosed) || errors.Is(err, ErrClosed)
}
