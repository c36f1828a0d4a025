// Package cache keeps the single on-disk copy of the statistics payload.
//
// The store owns exactly one file (cache.json inside the config directory)
// and one freshness threshold. It never parses the payload: content is an
// opaque blob that is either served, replaced, or left alone by the caller.
//
// Classification happens once per run:
//
//  1. Missing file: an empty file is created and the state is Absent
//  2. File older than the TTL: Stale, with the old content
//  3. Anything else: Fresh, with the content
//
// Writes truncate and rewrite the whole file. There is no locking and no
// atomic rename, so concurrent invocations can interleave.
package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the name of the cache file inside the config directory
	FileName = "cache.json"

	filePerm = 0o644
)

// IOError is returned for any filesystem failure other than the cache file
// being absent during classification.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s cache file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Store manages the cache file
type Store struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to compute file age
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store for dir/cache.json with the given TTL
func New(dir string, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		path: filepath.Join(dir, FileName),
		ttl:  ttl,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the location of the cache file
func (s *Store) Path() string {
	return s.path
}

// Classify reads the cache file and decides how fresh it is.
// A missing file is created empty and reported as Absent.
func (s *Store) Classify() (State, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return State{}, &IOError{Op: "open", Path: s.path, Err: err}
		}

		// O_CREATE without O_TRUNC: a file appearing in between is left intact
		created, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, filePerm)
		if err != nil {
			return State{}, &IOError{Op: "create", Path: s.path, Err: err}
		}

		if err := created.Close(); err != nil {
			return State{}, &IOError{Op: "create", Path: s.path, Err: err}
		}

		return State{Kind: Absent}, nil
	}

	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return State{}, &IOError{Op: "read", Path: s.path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		return State{}, &IOError{Op: "stat", Path: s.path, Err: err}
	}

	return State{
		Kind:    s.kindFor(info.ModTime()),
		Content: string(data),
	}, nil
}

// Persist replaces the whole content of the cache file
func (s *Store) Persist(content string) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return &IOError{Op: "create", Path: s.path, Err: err}
	}

	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	return nil
}

// Inspect reports on the cache file without creating it
func (s *Store) Inspect() (Info, error) {
	info := Info{Path: s.path, TTL: s.ttl}

	fi, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			info.Kind = Absent
			return info, nil
		}

		return info, &IOError{Op: "stat", Path: s.path, Err: err}
	}

	info.Exists = true
	info.Size = fi.Size()
	info.ModTime = fi.ModTime()
	info.Age = s.now().Sub(fi.ModTime())
	info.Kind = s.kindFor(fi.ModTime())

	return info, nil
}

// kindFor treats an age equal to the TTL as fresh
func (s *Store) kindFor(modTime time.Time) Kind {
	if s.now().Sub(modTime) > s.ttl {
		return Stale
	}

	return Fresh
}
