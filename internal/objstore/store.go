// Package objstore adapts bucket storage (S3-compatible APIs via the AWS SDK,
// or MinIO) to the small text-object surface kura needs.
package objstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

type Store interface {
	// List returns every key under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the object body as text, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, contents string) error
}
