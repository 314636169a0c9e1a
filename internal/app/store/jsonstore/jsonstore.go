// Package jsonstore is the record store: typed load/save of whole named
// collections, one JSON document per collection under the data directory.
//
// Guarantees:
//   - Save fully replaces the prior persisted value or fails without a
//     partial write (write-to-temp-then-rename in the same directory).
//   - A malformed persisted payload is reported as CorruptCollection,
//     never silently treated as absent.
//   - Update and Batch serialize read-modify-write sequences with a
//     per-collection lock; acquisition is bounded by the caller's
//     context and a timeout surfaces as ConcurrencyConflict.
//
// The store knows nothing about the shapes it persists; typed collection
// stores layer on top of it.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/system/faults"
)

// Collection names. Each is persisted as <name>.json in the data dir.
const (
	Projects               = "projects"
	Groups                 = "groups"
	Config                 = "config"
	AdminCredentials       = "admin_credentials"
	FormContent            = "form_content"
	ShortURLs              = "short_urls"
	FileSubmissionSettings = "file_submission_settings"
	FileSubmissions        = "file_submissions"
	LabManual              = "lab_manual"
	ClassAssignments       = "class_assignments"
	Deadlines              = "deadlines"
)

// ArchiveDirName is the subdirectory holding one file per archived deletion.
const ArchiveDirName = "archive"

// Store owns the on-disk representation of every collection.
type Store struct {
	dir string
	log *zap.Logger

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// New opens (creating if needed) the data directory and archive
// subdirectory and returns a Store over them.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, faults.Wrap(faults.IOError, "create data dir", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ArchiveDirName), 0o755); err != nil {
		return nil, faults.Wrap(faults.IOError, "create archive dir", err)
	}
	return &Store{
		dir:   dir,
		log:   logger,
		locks: make(map[string]chan struct{}),
	}, nil
}

// Ping verifies the data directory is still present and reachable.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return faults.Wrap(faults.IOError, "stat data dir", err)
	}
	if !info.IsDir() {
		return faults.New(faults.IOError, s.dir+" is not a directory")
	}
	return nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// ArchiveDir returns the archive directory path.
func (s *Store) ArchiveDir() string { return filepath.Join(s.dir, ArchiveDirName) }

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads a collection into v. It returns false with a nil error when
// the collection has never been written; callers supply their own
// defaults for that case.
func (s *Store) Load(collection string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, faults.Wrap(faults.IOError, "read "+collection, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, faults.Wrap(faults.CorruptCollection, collection+" is not valid JSON", err)
	}
	return true, nil
}

// Save atomically replaces the persisted collection with v.
func (s *Store) Save(collection string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return faults.Wrap(faults.IOError, "encode "+collection, err)
	}
	return s.writeAtomic(s.path(collection), data)
}

// writeAtomic writes data to a temp file in the target's directory and
// renames it into place, so readers never observe a partial document.
func (s *Store) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return faults.Wrap(faults.IOError, "create temp for "+path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return faults.Wrap(faults.IOError, "write temp for "+path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return faults.Wrap(faults.IOError, "close temp for "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return faults.Wrap(faults.IOError, "replace "+path, err)
	}
	return nil
}

// lockFor returns the (lazily created) lock channel for a collection.
func (s *Store) lockFor(collection string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[collection]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[collection] = ch
	}
	return ch
}

// acquire takes the collection lock or fails with ConcurrencyConflict
// when ctx expires first.
func (s *Store) acquire(ctx context.Context, collection string) (func(), error) {
	ch := s.lockFor(collection)
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, faults.Wrap(faults.ConcurrencyConflict,
			fmt.Sprintf("could not lock %s collection", collection), ctx.Err())
	}
}

// Update runs fn while holding the collection's lock. fn performs its own
// Load and Save through the store; the lock serializes the whole
// read-modify-write cycle against other writers of the same collection.
func (s *Store) Update(ctx context.Context, collection string, fn func() error) error {
	release, err := s.acquire(ctx, collection)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Tx stages collection writes inside a Batch. Values are marshaled when
// staged so an encoding failure aborts before anything touches disk.
type Tx struct {
	store  *Store
	staged []stagedWrite
}

type stagedWrite struct {
	collection string
	data       []byte
}

// Load reads a collection inside the batch's critical section.
func (tx *Tx) Load(collection string, v any) (bool, error) {
	return tx.store.Load(collection, v)
}

// Save stages a replacement value for a collection. Nothing is persisted
// until the batch function returns successfully.
func (tx *Tx) Save(collection string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return faults.Wrap(faults.IOError, "encode "+collection, err)
	}
	tx.staged = append(tx.staged, stagedWrite{collection: collection, data: data})
	return nil
}

// Batch runs fn with every named collection locked (acquired in sorted
// order, so overlapping batches cannot deadlock) and commits the staged
// writes only if fn succeeds. All temp files are written before the first
// rename, which keeps the multi-collection commit as close to atomic as a
// flat-file store allows.
func (s *Store) Batch(ctx context.Context, collections []string, fn func(tx *Tx) error) error {
	names := append([]string(nil), collections...)
	sort.Strings(names)

	releases := make([]func(), 0, len(names))
	defer func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}()
	for _, name := range names {
		release, err := s.acquire(ctx, name)
		if err != nil {
			return err
		}
		releases = append(releases, release)
	}

	tx := &Tx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(tx.staged)
}

// commit writes every staged document to a temp file, then renames each
// into place. A temp-write failure aborts before any rename; a rename
// failure is surfaced naming the collection that did not persist.
func (s *Store) commit(staged []stagedWrite) error {
	type pending struct {
		tmp, final string
	}
	ready := make([]pending, 0, len(staged))
	cleanup := func() {
		for _, p := range ready {
			os.Remove(p.tmp)
		}
	}

	for _, w := range staged {
		final := s.path(w.collection)
		tmp, err := os.CreateTemp(s.dir, "."+w.collection+".json.tmp-*")
		if err != nil {
			cleanup()
			return faults.Wrap(faults.IOError, "create temp for "+w.collection, err)
		}
		if _, err := tmp.Write(w.data); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			cleanup()
			return faults.Wrap(faults.IOError, "write temp for "+w.collection, err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			cleanup()
			return faults.Wrap(faults.IOError, "close temp for "+w.collection, err)
		}
		ready = append(ready, pending{tmp: tmp.Name(), final: final})
	}

	for i, p := range ready {
		if err := os.Rename(p.tmp, p.final); err != nil {
			for _, rest := range ready[i:] {
				os.Remove(rest.tmp)
			}
			s.log.Error("batch commit interrupted",
				zap.String("collection", staged[i].collection), zap.Error(err))
			return faults.Wrap(faults.IOError,
				"persist "+staged[i].collection+" (earlier collections in this batch were already written)", err)
		}
	}
	return nil
}
