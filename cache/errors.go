package cache

import "errors"

var (
	ErrInvalidConfiguration = errors.New("cache expiration period cannot be negative")
	ErrMissingEntry         = errors.New("cache entry not found")
)
