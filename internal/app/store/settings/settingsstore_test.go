package settingsstore_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	"github.com/sranand/allochub/internal/domain/models"
)

func newStore(t *testing.T) *settingsstore.Store {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("jsonstore.New failed: %v", err)
	}
	return settingsstore.New(files)
}

func TestGetReturnsDefaultsWhenUnwritten(t *testing.T) {
	s := newStore(t)

	cfg, err := s.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := models.DefaultConfig()
	if cfg != want {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestUpdatePersists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	updated, err := s.Update(ctx, func(cfg *models.Config) error {
		cfg.MaxMembers = 6
		cfg.FormPublished = false
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.MaxMembers != 6 {
		t.Errorf("returned config not updated: %+v", updated)
	}

	cfg, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxMembers != 6 || cfg.FormPublished {
		t.Errorf("persisted config: got %+v", cfg)
	}
	if cfg.NextGroupNumber != 1 {
		t.Errorf("untouched field changed: %+v", cfg)
	}
}

func TestEnsureDefaultsDoesNotOverwrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}
	if _, err := s.Update(ctx, func(cfg *models.Config) error {
		cfg.NextGroupNumber = 17
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.EnsureDefaults(ctx); err != nil {
		t.Fatal(err)
	}
	cfg, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NextGroupNumber != 17 {
		t.Errorf("EnsureDefaults clobbered existing settings: %+v", cfg)
	}
}
