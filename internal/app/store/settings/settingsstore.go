// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store provides access to the config collection, the single settings
// document administrators can change at runtime.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Read loads the settings inside a batch critical section, falling back
// to defaults when the collection has never been written.
func Read(tx *jsonstore.Tx) (models.Config, error) {
	cfg := models.DefaultConfig()
	if _, err := tx.Load(jsonstore.Config, &cfg); err != nil {
		return models.Config{}, err
	}
	return cfg, nil
}

// Write stages the settings inside a batch.
func Write(tx *jsonstore.Tx, cfg models.Config) error {
	return tx.Save(jsonstore.Config, cfg)
}

// Get returns the current settings, defaults if none were ever saved.
func (s *Store) Get() (models.Config, error) {
	cfg := models.DefaultConfig()
	if _, err := s.files.Load(jsonstore.Config, &cfg); err != nil {
		return models.Config{}, err
	}
	return cfg, nil
}

// Update applies fn to the current settings and persists the result,
// all under the collection lock.
func (s *Store) Update(ctx context.Context, fn func(cfg *models.Config) error) (models.Config, error) {
	var out models.Config
	err := s.files.Update(ctx, jsonstore.Config, func() error {
		cfg, err := s.Get()
		if err != nil {
			return err
		}
		if err := fn(&cfg); err != nil {
			return err
		}
		out = cfg
		return s.files.Save(jsonstore.Config, cfg)
	})
	return out, err
}

// EnsureDefaults writes the default settings on first run so the
// collection exists before the first request.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	return s.files.Update(ctx, jsonstore.Config, func() error {
		var cfg models.Config
		found, err := s.files.Load(jsonstore.Config, &cfg)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		return s.files.Save(jsonstore.Config, models.DefaultConfig())
	})
}
