// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

var ErrDuplicateProject = errors.New("a project with this name already exists")

// Store reads and mutates the projects collection.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Read loads the full projects list inside a batch critical section.
// An absent collection reads as empty.
func Read(tx *jsonstore.Tx) ([]models.Project, error) {
	var projects []models.Project
	if _, err := tx.Load(jsonstore.Projects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Write stages the full projects list inside a batch.
func Write(tx *jsonstore.Tx, projects []models.Project) error {
	return tx.Save(jsonstore.Projects, projects)
}

// All returns every project, soft-deleted ones included.
func (s *Store) All() ([]models.Project, error) {
	var projects []models.Project
	if _, err := s.files.Load(jsonstore.Projects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Active returns the active view: projects with deleted == false.
// Every consumer queries through here rather than re-filtering.
func (s *Store) Active() ([]models.Project, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return FilterActive(all), nil
}

// FilterActive returns the non-deleted projects of a snapshot.
func FilterActive(projects []models.Project) []models.Project {
	active := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if !p.Deleted {
			active = append(active, p)
		}
	}
	return active
}

// Get returns the active project with the given name.
func (s *Store) Get(name string) (models.Project, error) {
	active, err := s.Active()
	if err != nil {
		return models.Project{}, err
	}
	for _, p := range active {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Project{}, faults.New(faults.NotFound, "project "+name+" not found")
}

// Add creates a project, or reactivates a soft-deleted project of the
// same name instead of refusing it. An active duplicate is rejected.
func (s *Store) Add(ctx context.Context, name, status string) (models.Project, error) {
	name = strings.TrimSpace(name)
	var created models.Project
	err := s.files.Update(ctx, jsonstore.Projects, func() error {
		all, err := s.All()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for i := range all {
			if all[i].Name != name {
				continue
			}
			if !all[i].Deleted {
				return ErrDuplicateProject
			}
			all[i].Deleted = false
			all[i].DeletedAt = nil
			all[i].DeletedReason = ""
			all[i].Status = status
			all[i].ReactivatedAt = &now
			created = all[i]
			return s.files.Save(jsonstore.Projects, all)
		}
		created = models.Project{
			Name:      name,
			Status:    status,
			CreatedAt: now,
		}
		all = append(all, created)
		return s.files.Save(jsonstore.Projects, all)
	})
	return created, err
}

// Replace persists a full projects snapshot under the collection lock.
func (s *Store) Replace(ctx context.Context, projects []models.Project) error {
	return s.files.Update(ctx, jsonstore.Projects, func() error {
		return s.files.Save(jsonstore.Projects, projects)
	})
}

// UpdateStatus sets the status of an active project.
func (s *Store) UpdateStatus(ctx context.Context, name, status string) error {
	return s.files.Update(ctx, jsonstore.Projects, func() error {
		all, err := s.All()
		if err != nil {
			return err
		}
		for i := range all {
			if all[i].Name == name && !all[i].Deleted {
				all[i].Status = status
				return s.files.Save(jsonstore.Projects, all)
			}
		}
		return faults.New(faults.NotFound, "project "+name+" not found")
	})
}
