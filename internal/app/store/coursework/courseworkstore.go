// internal/app/store/coursework/courseworkstore.go
package courseworkstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store provides access to the per-student coursework collections:
// lab_manual and class_assignments. Each is a flat list of hand-ins.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// collectionFor maps a coursework channel to its backing collection.
func collectionFor(channel string) (string, error) {
	switch channel {
	case models.ChannelLabManual:
		return jsonstore.LabManual, nil
	case models.ChannelClassAssignment:
		return jsonstore.ClassAssignments, nil
	default:
		return "", faults.New(faults.ValidationFailed, channel+" is not a coursework channel")
	}
}

// List returns every hand-in recorded for a channel.
func (s *Store) List(channel string) ([]models.CourseworkSubmission, error) {
	collection, err := collectionFor(channel)
	if err != nil {
		return nil, err
	}
	var subs []models.CourseworkSubmission
	if _, err := s.files.Load(collection, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Record appends a hand-in to a channel. A student may resubmit; each
// hand-in is kept with its own id and timestamp.
func (s *Store) Record(ctx context.Context, channel string, sub models.CourseworkSubmission) (models.CourseworkSubmission, error) {
	collection, err := collectionFor(channel)
	if err != nil {
		return models.CourseworkSubmission{}, err
	}
	err = s.files.Update(ctx, collection, func() error {
		var subs []models.CourseworkSubmission
		if _, err := s.files.Load(collection, &subs); err != nil {
			return err
		}
		sub.ID = uuid.NewString()
		sub.SubmittedAt = time.Now().UTC()
		subs = append(subs, sub)
		return s.files.Save(collection, subs)
	})
	return sub, err
}
