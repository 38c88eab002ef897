package redis

import "errors"

var (
	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("redis: key not found")
	// ErrCacheMiss is returned when a cached value is absent.
	ErrCacheMiss = errors.New("redis: cache miss")
)
