package globalconf

import "context"

//go:generate mockgen -package globalconf_test -destination source_mock_test.go github.com/msaldanha/timecache/globalconf Source

// Source is a place global configuration parameters are loaded from. ID must
// be stable for the lifetime of the source since it is used as the cache key.
type Source interface {
	ID() string
	Load(ctx context.Context) (map[string]any, error)
}
