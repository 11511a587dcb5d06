package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/52poke/kura/internal/cache"
	"github.com/52poke/kura/internal/config"
	"github.com/52poke/kura/internal/objstore"
)

type openOptions struct {
	objects objstore.Store
	cache   cache.Store
}

type OpenOption func(*openOptions)

// WithObjectStore skips objstore.Open and uses s as the bucket.
func WithObjectStore(s objstore.Store) OpenOption {
	return func(o *openOptions) { o.objects = s }
}

// WithCache replaces the cache built from cfg.
func WithCache(c cache.Store) OpenOption {
	return func(o *openOptions) { o.cache = c }
}

// New picks the backend once: remote when cfg.Remote is set, local otherwise.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger, opts ...OpenOption) (*Storage, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Remote == nil {
		log.WithField("root", cfg.DataDir).Info("using local filesystem storage")
		return NewStorage(NewLocal(cfg.DataDir), log), nil
	}

	objects := o.objects
	if objects == nil {
		var err error
		objects, err = objstore.Open(ctx, *cfg.Remote)
		if err != nil {
			return nil, fmt.Errorf("open object store: %w", err)
		}
	}

	c := o.cache
	if c == nil {
		var err error
		c, err = newCache(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	}

	if !cfg.Remote.HasStaticCredentials() && cfg.Remote.APIKey != "" {
		log.Warn("COS_CONFIG has an apiKey but no HMAC keys; falling back to the default credential chain")
	}
	log.WithFields(logrus.Fields{
		"driver": cfg.Remote.Driver,
		"bucket": cfg.Remote.Bucket,
	}).Info("using remote object storage")
	return NewStorage(NewRemote(objects, c, log), log), nil
}

func newCache(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (cache.Store, error) {
	if cfg.RedisAddr == "" {
		return cache.NewTTLStore(cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries)), nil
	}

	store := cache.NewRedisStore(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.CacheTTL)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connect redis cache: %w", err)
	}
	log.WithField("addr", cfg.RedisAddr).Info("using redis cache")
	return store, nil
}
