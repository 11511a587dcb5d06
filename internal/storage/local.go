package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local reads and writes files directly on disk. Names are resolved against
// root; an empty root keeps them relative to the working directory.
type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) Mode() Mode { return ModeLocal }

func (l *Local) path(name string) string {
	if l.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.root, name)
}

// List keeps the raw directory order and matches filter as a plain,
// case-sensitive substring.
func (l *Local) List(ctx context.Context, dir, filter string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path(dir))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	defer f.Close()

	// File.ReadDir does not sort, unlike os.ReadDir.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	matches := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e.Name(), filter) {
			matches = append(matches, e.Name())
		}
	}
	return matches, nil
}

func (l *Local) Read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(l.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w: %w", name, ErrNotExist, err)
		}
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func (l *Local) Write(ctx context.Context, name, contents string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.WriteFile(l.path(name), []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
