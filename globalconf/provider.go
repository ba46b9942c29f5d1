package globalconf

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/msaldanha/timecache/cache"
)

// Provider loads configuration snapshots from sources, keeping them in a
// time-expiring cache keyed by source ID.
type Provider struct {
	cache  cache.Cache[*Snapshot]
	group  singleflight.Group
	clock  clock.Clock
	logger *zap.Logger

	// mu orders cache writes from loads against invalidations.
	mu          sync.Mutex
	generations map[string]uint64
}

type ProviderOption func(*Provider)

func WithLogger(logger *zap.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithClock sets the clock used to stamp Snapshot.LoadedAt.
func WithClock(c clock.Clock) ProviderOption {
	return func(p *Provider) {
		p.clock = c
	}
}

func NewProvider(c cache.Cache[*Snapshot], options ...ProviderOption) *Provider {
	p := &Provider{
		cache:       c,
		clock:       clock.New(),
		logger:      zap.NewNop(),
		generations: make(map[string]uint64),
	}
	for _, option := range options {
		option(p)
	}
	p.logger = p.logger.Named("Provider")
	return p
}

// Snapshot returns the cached snapshot of src while it is valid and loads a
// fresh one otherwise. Concurrent loads of the same source share one call.
func (p *Provider) Snapshot(ctx context.Context, src Source) (*Snapshot, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	id := src.ID()
	logger := p.logger.With(zap.String("source", id))

	if p.cache.IsEnabled() {
		if snap, ok := p.cache.GetIfValid(id); ok && snap != nil {
			logger.Debug("Found in cache", zap.String("snapshot", snap.ID))
			return snap, nil
		}
		logger.Debug("NOT found in cache")
	}

	v, er, _ := p.group.Do(id, func() (any, error) {
		return p.load(ctx, src)
	})
	if er != nil {
		return nil, er
	}
	return v.(*Snapshot), nil
}

// Lookup returns a single parameter from the current snapshot of src.
func (p *Provider) Lookup(ctx context.Context, src Source, key string) (any, bool, error) {
	snap, er := p.Snapshot(ctx, src)
	if er != nil {
		return nil, false, er
	}
	v, found := snap.Get(key)
	return v, found, nil
}

// Invalidate forces the next Snapshot call for src to reload it. A load
// already in flight still answers its callers but is not cached.
func (p *Provider) Invalidate(src Source) {
	if src == nil {
		return
	}
	id := src.ID()
	p.logger.Debug("Invalidating", zap.String("source", id))

	p.mu.Lock()
	p.generations[id]++
	p.cache.Set(id, nil)
	p.mu.Unlock()
	p.group.Forget(id)
}

func (p *Provider) generation(id string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generations[id]
}

func (p *Provider) load(ctx context.Context, src Source) (*Snapshot, error) {
	id := src.ID()
	gen := p.generation(id)
	values, er := src.Load(ctx)
	if er != nil {
		p.logger.Error("Failed to load source", zap.String("source", id), zap.Error(er))
		return nil, fmt.Errorf("load %s: %w", id, er)
	}

	snap := &Snapshot{
		ID:       uuid.NewString(),
		Source:   id,
		LoadedAt: p.clock.Now(),
		Values:   values,
	}
	if p.cache.IsEnabled() {
		p.mu.Lock()
		if p.generations[id] == gen {
			p.cache.Set(id, snap)
		} else {
			p.logger.Debug("Invalidated while loading, not caching", zap.String("source", id))
		}
		p.mu.Unlock()
	}
	p.logger.Debug("Loaded source", zap.String("source", id), zap.String("snapshot", snap.ID),
		zap.Int("parameters", len(values)))
	return snap, nil
}
