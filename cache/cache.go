package cache

import "time"

// Cache is a time-expiring key-value cache with a single TTL for all keys.
//
// IsValid and Get are two separate steps: a concurrent Set may land between
// them, so a true from IsValid is only advisory for the following Get.
// GetIfValid performs both in one step.
type Cache[T any] interface {
	IsEnabled() bool
	IsValid(key string) bool
	Get(key string) (T, error)
	GetIfValid(key string) (T, bool)
	Set(key string, value T)
}

type cacheRecord[T any] struct {
	writtenAt time.Time
	value     T
}

// IsValidAt reports whether the record, written at writtenAt, is still within
// ttl at the given instant.
func (r cacheRecord[T]) IsValidAt(now time.Time, ttl time.Duration) bool {
	return r.writtenAt.After(now.Add(-ttl))
}
