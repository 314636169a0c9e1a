// internal/app/store/formcontent/formcontentstore.go
package formcontentstore

import (
	"context"
	"time"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store provides access to the form_content collection.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Get returns the editable form content, defaults if never saved.
func (s *Store) Get() (models.FormContent, error) {
	content := models.DefaultFormContent()
	if _, err := s.files.Load(jsonstore.FormContent, &content); err != nil {
		return models.FormContent{}, err
	}
	return content, nil
}

// SaveCoverPage replaces the cover page section. Content must already be
// sanitized by the caller.
func (s *Store) SaveCoverPage(ctx context.Context, page models.CoverPage) error {
	return s.files.Update(ctx, jsonstore.FormContent, func() error {
		content, err := s.Get()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		page.LastUpdated = &now
		content.CoverPage = page
		return s.files.Save(jsonstore.FormContent, content)
	})
}

// SaveFormHeader replaces the form header section.
func (s *Store) SaveFormHeader(ctx context.Context, header models.FormHeader) error {
	return s.files.Update(ctx, jsonstore.FormContent, func() error {
		content, err := s.Get()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		header.LastUpdated = &now
		content.FormHeader = header
		return s.files.Save(jsonstore.FormContent, content)
	})
}

// EnsureDefaults writes the default content on first run.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	return s.files.Update(ctx, jsonstore.FormContent, func() error {
		var content models.FormContent
		found, err := s.files.Load(jsonstore.FormContent, &content)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		return s.files.Save(jsonstore.FormContent, models.DefaultFormContent())
	})
}
