package cache

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// ExpiringCache is a thread-safe in-memory cache whose entries become invalid
// once the configured TTL has elapsed since they were written. Expired entries
// are never removed, only reported as invalid until overwritten.
type ExpiringCache[T any] struct {
	data   *sync.Map
	ttl    time.Duration
	clock  clock.Clock
	logger *zap.Logger
}

var _ Cache[any] = (*ExpiringCache[any])(nil)

type options struct {
	clock  clock.Clock
	logger *zap.Logger
}

type Option func(*options)

// WithClock sets the time source used to stamp and check entries.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a cache whose entries expire ttlSeconds after being written.
// A ttlSeconds of 0 is valid and means the cache is disabled.
func New[T any](ttlSeconds int, opts ...Option) (*ExpiringCache[T], error) {
	if ttlSeconds < 0 {
		return nil, ErrInvalidConfiguration
	}

	o := options{
		clock:  clock.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &ExpiringCache[T]{
		data:   &sync.Map{},
		ttl:    time.Duration(ttlSeconds) * time.Second,
		clock:  o.clock,
		logger: o.logger.Named("ExpiringCache"),
	}
	c.logger.Debug("Created cache", zap.Duration("ttl", c.ttl))
	return c, nil
}

// IsEnabled tells whether the cache has a positive TTL. Callers may skip the
// cache entirely when it returns false.
func (c *ExpiringCache[T]) IsEnabled() bool {
	return c.ttl > 0
}

func (c *ExpiringCache[T]) TTL() time.Duration {
	return c.ttl
}

// IsValid reports whether key has an entry written less than TTL ago.
func (c *ExpiringCache[T]) IsValid(key string) bool {
	rec, found := c.load(key)
	return found && rec.IsValidAt(c.clock.Now(), c.ttl)
}

// Get returns the value stored under key without checking its validity.
// Callers should check IsValid first; calling Get for a key that was never
// set is a misuse and yields ErrMissingEntry.
func (c *ExpiringCache[T]) Get(key string) (T, error) {
	rec, found := c.load(key)
	if !found {
		var value T
		c.logger.Debug("Get on missing entry", zap.String("key", key))
		return value, ErrMissingEntry
	}
	return rec.value, nil
}

// GetIfValid returns the value under key and true if the entry is still
// valid, checking and reading the same entry.
func (c *ExpiringCache[T]) GetIfValid(key string) (T, bool) {
	var value T
	rec, found := c.load(key)
	if !found || !rec.IsValidAt(c.clock.Now(), c.ttl) {
		return value, false
	}
	return rec.value, true
}

// Set stores value under key stamped with the current time, replacing any
// previous entry. Setting a nil value is how callers invalidate a key early.
func (c *ExpiringCache[T]) Set(key string, value T) {
	c.data.Store(key, cacheRecord[T]{
		writtenAt: c.clock.Now(),
		value:     value,
	})
}

func (c *ExpiringCache[T]) load(key string) (cacheRecord[T], bool) {
	r, found := c.data.Load(key)
	if !found {
		return cacheRecord[T]{}, false
	}
	return r.(cacheRecord[T]), true
}
