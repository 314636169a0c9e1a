// internal/app/store/deadlines/deadlinestore.go
package deadlinestore

import (
	"context"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store provides access to the deadlines collection: one entry per
// submission channel, keyed by channel name.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// All returns every configured deadline. Channels with no entry are
// simply absent from the map and count as always open.
func (s *Store) All() (map[string]models.Deadline, error) {
	deadlines := make(map[string]models.Deadline)
	if _, err := s.files.Load(jsonstore.Deadlines, &deadlines); err != nil {
		return nil, err
	}
	return deadlines, nil
}

// Get returns the deadline for one channel. found is false when the
// channel has no configured entry.
func (s *Store) Get(channel string) (models.Deadline, bool, error) {
	all, err := s.All()
	if err != nil {
		return models.Deadline{}, false, err
	}
	d, ok := all[channel]
	return d, ok, nil
}

// Upsert sets the deadline entry for a channel.
func (s *Store) Upsert(ctx context.Context, channel string, d models.Deadline) error {
	if !models.ValidChannel(channel) {
		return faults.New(faults.ValidationFailed, "unknown submission channel "+channel)
	}
	return s.files.Update(ctx, jsonstore.Deadlines, func() error {
		all, err := s.All()
		if err != nil {
			return err
		}
		all[channel] = d
		return s.files.Save(jsonstore.Deadlines, all)
	})
}
