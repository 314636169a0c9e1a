// internal/app/store/archive/archivestore.go
package archivestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store owns the archive directory: one file per archived deletion,
// named {dataType}_deleted_{YYYYmmdd_HHMMSS}.json. The record id is the
// filename without its extension.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Write persists an archive snapshot for a deleted entity and returns
// the stored record. Same-second deletions of the same type get a
// numeric suffix rather than overwriting each other.
func (s *Store) Write(dataType string, deletedData any, deletedBy, reason string) (models.ArchiveRecord, error) {
	raw, err := json.Marshal(deletedData)
	if err != nil {
		return models.ArchiveRecord{}, faults.Wrap(faults.IOError, "encode archive snapshot", err)
	}

	now := time.Now().UTC()
	base := fmt.Sprintf("%s_deleted_%s", dataType, now.Format("20060102_150405"))
	dir := s.files.ArchiveDir()

	name := base
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, name+".json")); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}

	record := models.ArchiveRecord{
		ID:          name,
		DataType:    dataType,
		DeletedData: raw,
		DeletedAt:   now,
		DeletedBy:   deletedBy,
		Reason:      reason,
	}
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return models.ArchiveRecord{}, faults.Wrap(faults.IOError, "encode archive record", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644); err != nil {
		return models.ArchiveRecord{}, faults.Wrap(faults.IOError, "write archive record", err)
	}
	return record, nil
}

// List returns every archive record, newest first. dataType filters to
// one type when non-empty.
func (s *Store) List(dataType string) ([]models.ArchiveRecord, error) {
	entries, err := os.ReadDir(s.files.ArchiveDir())
	if err != nil {
		return nil, faults.Wrap(faults.IOError, "read archive dir", err)
	}
	records := make([]models.ArchiveRecord, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		record, err := s.Get(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		if dataType != "" && record.DataType != dataType {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].DeletedAt.After(records[j].DeletedAt)
	})
	return records, nil
}

// Get returns one archive record by id.
func (s *Store) Get(id string) (models.ArchiveRecord, error) {
	path, err := s.recordPath(id)
	if err != nil {
		return models.ArchiveRecord{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.ArchiveRecord{}, faults.New(faults.NotFound, "archive record "+id+" not found")
		}
		return models.ArchiveRecord{}, faults.Wrap(faults.IOError, "read archive record "+id, err)
	}
	var record models.ArchiveRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return models.ArchiveRecord{}, faults.Wrap(faults.CorruptCollection, "archive record "+id+" is not valid JSON", err)
	}
	return record, nil
}

// Purge permanently removes one archive record.
func (s *Store) Purge(id string) error {
	path, err := s.recordPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return faults.New(faults.NotFound, "archive record "+id+" not found")
		}
		return faults.Wrap(faults.IOError, "remove archive record "+id, err)
	}
	return nil
}

// PurgeAll permanently removes every archive record and returns the
// number removed.
func (s *Store) PurgeAll() (int, error) {
	entries, err := os.ReadDir(s.files.ArchiveDir())
	if err != nil {
		return 0, faults.Wrap(faults.IOError, "read archive dir", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.files.ArchiveDir(), e.Name())); err != nil {
			return removed, faults.Wrap(faults.IOError, "remove archive record "+e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// recordPath resolves an id to its file, rejecting ids that would
// escape the archive directory.
func (s *Store) recordPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", faults.New(faults.ValidationFailed, "invalid archive record id")
	}
	return filepath.Join(s.files.ArchiveDir(), id+".json"), nil
}
