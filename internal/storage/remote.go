package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/52poke/kura/internal/cache"
	"github.com/52poke/kura/internal/objstore"
)

// Remote serves files from a bucket through a write-through cache.
//
// A cached entry, including a cached empty string, answers reads until it
// expires. Failed or empty fetches are cached as "" as well, so a transient
// bucket error is not retried until the entry expires. Writes update the
// cache before the bucket write, so a failed write still leaves the new
// contents cached.
type Remote struct {
	objects objstore.Store
	cache   cache.Store
	log     logrus.FieldLogger
	group   singleflight.Group
}

func NewRemote(objects objstore.Store, c cache.Store, log logrus.FieldLogger) *Remote {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Remote{objects: objects, cache: c, log: log}
}

func (r *Remote) Mode() Mode { return ModeRemote }

// ListPrefix builds the object prefix for a directory and filter.
func ListPrefix(dir, filter string) string {
	return strings.ReplaceAll(dir+"/"+filter, "./", "")
}

// List is never cached.
func (r *Remote) List(ctx context.Context, dir, filter string) ([]string, error) {
	prefix := ListPrefix(dir, filter)
	keys, err := r.objects.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects %s: %w", prefix, err)
	}
	return keys, nil
}

func (r *Remote) Read(ctx context.Context, name string) (string, error) {
	val, err := r.cache.Get(ctx, name)
	if err == nil {
		r.log.WithField("path", name).Debug("cache hit")
		return val, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		r.log.WithField("path", name).WithError(err).Warn("cache lookup failed")
	}

	// Concurrent misses on one key share a single fetch. The fetch outlives the
	// first caller so a dropped request cannot fail the others.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(name, func() (any, error) {
		contents, fetchErr := r.objects.Get(fetchCtx, name)
		if fetchErr != nil {
			contents = ""
		}
		if isContextErr(fetchErr) {
			return contents, fetchErr
		}
		if putErr := r.cache.Put(fetchCtx, name, contents); putErr != nil {
			r.log.WithField("path", name).WithError(putErr).Warn("cache fill failed")
		}
		return contents, fetchErr
	})
	if err != nil {
		if errors.Is(err, objstore.ErrNotFound) {
			return "", fmt.Errorf("read object %s: %w: %w", name, ErrNotExist, err)
		}
		return "", fmt.Errorf("read object %s: %w", name, err)
	}
	return v.(string), nil
}

func (r *Remote) Write(ctx context.Context, name, contents string) error {
	if err := r.cache.Put(ctx, name, contents); err != nil {
		r.log.WithField("path", name).WithError(err).Warn("cache update failed")
	}
	if err := r.objects.Put(ctx, name, contents); err != nil {
		return fmt.Errorf("write object %s: %w", name, err)
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
