// Package storage serves file list/read/write from either local disk or a
// remote bucket. The backend is chosen once by New and never changes; the
// remote backend keeps a write-through TTL cache in front of the bucket.
//
// Backend returns explicit errors. Storage wraps a Backend with the lenient
// contract the hosting app expects: failures are logged and reported as an
// empty list, an empty string or false.
package storage

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/52poke/kura/internal/logging"
)

// ErrNotExist is returned by Backend.Read when the file or object is absent.
var ErrNotExist = errors.New("file does not exist")

type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	default:
		return "local"
	}
}

type Backend interface {
	Mode() Mode
	// List returns the names in dir that match filter.
	List(ctx context.Context, dir, filter string) ([]string, error)
	Read(ctx context.Context, name string) (string, error)
	Write(ctx context.Context, name, contents string) error
}

type Storage struct {
	backend Backend
	log     logrus.FieldLogger
}

func NewStorage(backend Backend, log logrus.FieldLogger) *Storage {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Storage{backend: backend, log: log}
}

func (s *Storage) Mode() Mode { return s.backend.Mode() }

// Backend exposes the error-returning API.
func (s *Storage) Backend() Backend { return s.backend }

// List never fails; errors yield an empty, non-nil slice.
func (s *Storage) List(ctx context.Context, dir, filter string) []string {
	entry := s.log.WithFields(logging.OpFields("list", s.Mode().String(), dir)).WithField("filter", filter)
	entry.Info("listing files in directory")

	names, err := s.backend.List(ctx, dir, filter)
	if err != nil {
		entry.WithError(err).Error("error listing files")
		return []string{}
	}
	if names == nil {
		names = []string{}
	}
	return names
}

// Read returns "" when the file is missing or unreadable.
func (s *Storage) Read(ctx context.Context, name string) string {
	entry := s.log.WithFields(logging.OpFields("read", s.Mode().String(), name))
	entry.Info("reading file")

	contents, err := s.backend.Read(ctx, name)
	if err != nil {
		entry.WithError(err).Error("error reading file")
		return ""
	}
	return contents
}

// Write reports whether the backend accepted the contents.
func (s *Storage) Write(ctx context.Context, name, contents string) bool {
	entry := s.log.WithFields(logging.OpFields("write", s.Mode().String(), name))
	entry.Info("writing file")

	if err := s.backend.Write(ctx, name, contents); err != nil {
		entry.WithError(err).Error("error writing file")
		return false
	}
	return true
}
