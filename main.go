package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/msaldanha/timecache/cache"
	"github.com/msaldanha/timecache/globalconf"
)

func main() {
	ttl := flag.Int("ttl", 60, "configuration cache TTL in seconds, 0 disables the cache")
	file := flag.String("file", "", "TOML configuration file")
	boltPath := flag.String("bolt", "", "bbolt configuration database")
	bucket := flag.String("bucket", "globalconf", "bucket holding the parameters in the bbolt database")
	key := flag.String("key", "", "parameter to print, dotted keys address nested tables")
	repeat := flag.Int("repeat", 1, "number of lookups to perform")
	flag.Parse()

	logger, er := zap.NewProduction()
	if er != nil {
		panic(fmt.Errorf("failed to create logger: %s", er))
	}

	er = run(logger, *ttl, *file, *boltPath, *bucket, *key, *repeat)
	os.Exit(exitCode(logger, er))
}

// exitCode logs a failed run and flushes the logger, since os.Exit skips
// deferred calls.
func exitCode(logger *zap.Logger, er error) int {
	code := 0
	if er != nil {
		logger.Error("Failed", zap.Error(er))
		code = 1
	}
	_ = logger.Sync()
	return code
}

func run(logger *zap.Logger, ttl int, file, boltPath, bucket, key string, repeat int) error {
	c, er := cache.New[*globalconf.Snapshot](ttl, cache.WithLogger(logger))
	if er != nil {
		return er
	}
	logger.Info("Configuration cache", zap.Bool("enabled", c.IsEnabled()), zap.Duration("ttl", c.TTL()))

	var src globalconf.Source
	switch {
	case file != "":
		src, er = globalconf.NewFileSource(file)
	case boltPath != "":
		var bs *globalconf.BoltSource
		bs, er = globalconf.OpenBoltSource(boltPath, bucket, globalconf.WithBoltLogger(logger))
		if er == nil {
			defer func() {
				if er := bs.Close(); er != nil {
					logger.Error("Failed to close configuration database", zap.Error(er))
				}
			}()
			src = bs
		}
	default:
		return fmt.Errorf("one of -file or -bolt is required")
	}
	if er != nil {
		return er
	}

	p := globalconf.NewProvider(c, globalconf.WithLogger(logger))
	ctx := context.Background()
	for i := 0; i < repeat; i++ {
		snap, er := p.Snapshot(ctx, src)
		if er != nil {
			return er
		}
		if key == "" {
			fmt.Printf("%s %s %v\n", snap.ID, snap.Source, snap.Values)
			continue
		}
		v, found := snap.Get(key)
		if !found {
			return fmt.Errorf("parameter %q not found in %s", key, snap.Source)
		}
		fmt.Printf("%s %s = %v\n", snap.ID, key, v)
	}
	return nil
}
