// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store provides access to the project-files collections: the
// file_submission_settings document and the file_submissions map of
// group number to uploaded-file records.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Settings returns the upload rules, defaults if never saved.
func (s *Store) Settings() (models.FileSubmissionSettings, error) {
	settings := models.DefaultFileSubmissionSettings()
	if _, err := s.files.Load(jsonstore.FileSubmissionSettings, &settings); err != nil {
		return models.FileSubmissionSettings{}, err
	}
	return settings, nil
}

// SaveSettings replaces the upload rules.
func (s *Store) SaveSettings(ctx context.Context, settings models.FileSubmissionSettings) error {
	return s.files.Update(ctx, jsonstore.FileSubmissionSettings, func() error {
		return s.files.Save(jsonstore.FileSubmissionSettings, settings)
	})
}

// EnsureDefaults writes the default upload rules on first run.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	return s.files.Update(ctx, jsonstore.FileSubmissionSettings, func() error {
		var settings models.FileSubmissionSettings
		found, err := s.files.Load(jsonstore.FileSubmissionSettings, &settings)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		return s.files.Save(jsonstore.FileSubmissionSettings, models.DefaultFileSubmissionSettings())
	})
}

// all loads the group-number-keyed submission map. JSON object keys are
// strings, so group numbers are stored in decimal form.
func (s *Store) all() (map[string][]models.FileSubmission, error) {
	subs := make(map[string][]models.FileSubmission)
	if _, err := s.files.Load(jsonstore.FileSubmissions, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ByGroup returns the files recorded for one group, newest last.
func (s *Store) ByGroup(groupNumber int) ([]models.FileSubmission, error) {
	all, err := s.all()
	if err != nil {
		return nil, err
	}
	return all[strconv.Itoa(groupNumber)], nil
}

// All returns the full map of group number to recorded files.
func (s *Store) All() (map[string][]models.FileSubmission, error) {
	return s.all()
}

// Record validates an upload's metadata against the current settings and
// appends it to the group's list. Returns the stored record with its
// generated id.
func (s *Store) Record(ctx context.Context, groupNumber int, sub models.FileSubmission) (models.FileSubmission, error) {
	err := s.files.Update(ctx, jsonstore.FileSubmissions, func() error {
		settings, err := s.Settings()
		if err != nil {
			return err
		}
		if !settings.Enabled {
			return faults.New(faults.ValidationFailed, "file submission is not enabled")
		}
		if reasons := checkUpload(settings, sub); len(reasons) > 0 {
			return faults.Validation(reasons)
		}

		all, err := s.all()
		if err != nil {
			return err
		}
		sub.ID = uuid.NewString()
		sub.UploadedAt = time.Now().UTC()
		key := strconv.Itoa(groupNumber)
		all[key] = append(all[key], sub)
		return s.files.Save(jsonstore.FileSubmissions, all)
	})
	return sub, err
}

func checkUpload(settings models.FileSubmissionSettings, sub models.FileSubmission) []string {
	var reasons []string
	name := strings.TrimSpace(sub.Filename)
	if name == "" {
		reasons = append(reasons, "filename is required")
	} else {
		allowed := false
		lower := strings.ToLower(name)
		for _, ext := range settings.AllowedFormats {
			if strings.HasSuffix(lower, strings.ToLower(ext)) {
				allowed = true
				break
			}
		}
		if !allowed {
			reasons = append(reasons, fmt.Sprintf("file type not allowed (accepted: %s)",
				strings.Join(settings.AllowedFormats, ", ")))
		}
	}
	if sub.Size <= 0 {
		reasons = append(reasons, "file size must be positive")
	} else if sub.Size > int64(settings.MaxSizeMB)*1024*1024 {
		reasons = append(reasons, fmt.Sprintf("file exceeds the %d MB limit", settings.MaxSizeMB))
	}
	return reasons
}
