package globalconf

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	defaultOpenTimeout = time.Second
	defaultOpenRetries = 3
)

// BoltSource loads parameters stored as key/value pairs in a bbolt bucket.
type BoltSource struct {
	db     *bbolt.DB
	bucket string
	owned  bool
}

var _ Source = (*BoltSource)(nil)

type boltOptions struct {
	timeout time.Duration
	retries uint64
	logger  *zap.Logger
}

type BoltOption func(*boltOptions)

// WithOpenTimeout sets how long a single open attempt waits for the file lock.
func WithOpenTimeout(timeout time.Duration) BoltOption {
	return func(o *boltOptions) {
		o.timeout = timeout
	}
}

func WithOpenRetries(retries uint64) BoltOption {
	return func(o *boltOptions) {
		o.retries = retries
	}
}

func WithBoltLogger(logger *zap.Logger) BoltOption {
	return func(o *boltOptions) {
		o.logger = logger
	}
}

// OpenBoltSource opens the database at path, retrying with exponential
// backoff while another process holds its lock. The returned source owns the
// database and closes it on Close.
func OpenBoltSource(path, bucket string, opts ...BoltOption) (*BoltSource, error) {
	if path == "" {
		return nil, ErrEmptySourcePath
	}
	if bucket == "" {
		return nil, ErrEmptyBucketName
	}
	o := boltOptions{
		timeout: defaultOpenTimeout,
		retries: defaultOpenRetries,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.Named("BoltSource").With(zap.String("path", path))

	var db *bbolt.DB
	var openErr error
	operation := func() error {
		db, openErr = bbolt.Open(path, 0600, &bbolt.Options{Timeout: o.timeout})
		if errors.Is(openErr, bbolt.ErrTimeout) {
			logger.Warn("Database is locked, retrying", zap.Error(openErr))
			return openErr
		}
		return nil
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), o.retries)
	if er := backoff.Retry(operation, b); er != nil {
		logger.Error("Failed to open database", zap.Error(er))
		return nil, er
	}
	if openErr != nil {
		logger.Error("Failed to open database", zap.Error(openErr))
		return nil, openErr
	}

	s, er := NewBoltSource(db, bucket)
	if er != nil {
		_ = db.Close()
		return nil, er
	}
	s.owned = true
	return s, nil
}

// NewBoltSource uses an already open database, creating bucket if needed.
func NewBoltSource(db *bbolt.DB, bucket string) (*BoltSource, error) {
	if bucket == "" {
		return nil, ErrEmptyBucketName
	}
	er := db.Update(func(tx *bbolt.Tx) error {
		_, er := tx.CreateBucketIfNotExists([]byte(bucket))
		return er
	})
	if er != nil {
		return nil, er
	}
	return &BoltSource{
		db:     db,
		bucket: bucket,
	}, nil
}

func (s *BoltSource) ID() string {
	return "bolt:" + s.db.Path() + "#" + s.bucket
}

func (s *BoltSource) Load(ctx context.Context) (map[string]any, error) {
	if er := ctx.Err(); er != nil {
		return nil, er
	}
	values := make(map[string]any)
	er := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.bucket))
		if b == nil {
			return ErrBucketNotFound
		}
		return b.ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	if er != nil {
		return nil, er
	}
	return values, nil
}

// Put stores a single parameter.
func (s *BoltSource) Put(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(s.bucket))
		if b == nil {
			return ErrBucketNotFound
		}
		return b.Put([]byte(key), []byte(value))
	})
}

// Close closes the database if this source opened it.
func (s *BoltSource) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
