package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/52poke/kura/internal/objstore"
)

// fakeObjects is an in-memory objstore.Store that counts calls.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string]string

	getErr  error
	putErr  error
	listErr error

	gets     int
	puts     int
	prefixes []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string]string)}
}

func (f *fakeObjects) List(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes = append(f.prefixes, prefix)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeObjects) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.objects[key]
	if !ok {
		return "", objstore.ErrNotFound
	}
	return v, nil
}

func (f *fakeObjects) Put(ctx context.Context, key, contents string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = contents
	return nil
}

func (f *fakeObjects) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}
