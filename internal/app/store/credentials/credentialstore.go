// internal/app/store/credentials/credentialstore.go
package credentialstore

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

const bcryptCost = 12

const minPasswordLength = 6

var (
	ErrBadCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort = errors.New("new password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")
	ErrCurrentIncorrect = errors.New("current password is incorrect")
)

// Store provides access to the admin_credentials collection. There is a
// single administrator account.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Get returns the stored credentials.
func (s *Store) Get() (models.AdminCredentials, error) {
	var creds models.AdminCredentials
	found, err := s.files.Load(jsonstore.AdminCredentials, &creds)
	if err != nil {
		return models.AdminCredentials{}, err
	}
	if !found {
		return models.AdminCredentials{}, faults.New(faults.NotFound, "admin credentials not initialized")
	}
	return creds, nil
}

// Verify checks a login attempt. Any failure path returns the same
// ErrBadCredentials so the response cannot distinguish a wrong username
// from a wrong password.
func (s *Store) Verify(username, password string) error {
	creds, err := s.Get()
	if err != nil {
		return err
	}
	if creds.Username != strings.TrimSpace(username) {
		return ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)) != nil {
		return ErrBadCredentials
	}
	return nil
}

// ChangePassword rotates the admin password. The current password must
// verify, the new password must meet the minimum length, and the
// confirmation must match.
func (s *Store) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	return s.files.Update(ctx, jsonstore.AdminCredentials, func() error {
		creds, err := s.Get()
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(current)) != nil {
			return ErrCurrentIncorrect
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
		if err != nil {
			return faults.Wrap(faults.IOError, "hash password", err)
		}
		creds.PasswordHash = string(hash)
		return s.files.Save(jsonstore.AdminCredentials, creds)
	})
}

// EnsureDefaults seeds the credentials on first run with the configured
// bootstrap username and password. An existing record is left alone.
func (s *Store) EnsureDefaults(ctx context.Context, username, password string) error {
	return s.files.Update(ctx, jsonstore.AdminCredentials, func() error {
		var creds models.AdminCredentials
		found, err := s.files.Load(jsonstore.AdminCredentials, &creds)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return faults.Wrap(faults.IOError, "hash password", err)
		}
		return s.files.Save(jsonstore.AdminCredentials, models.AdminCredentials{
			Username:     username,
			PasswordHash: string(hash),
		})
	})
}
