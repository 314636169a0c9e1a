package submissionstore_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	submissionstore "github.com/sranand/allochub/internal/app/store/submissions"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

func newStore(t *testing.T) *submissionstore.Store {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("jsonstore.New failed: %v", err)
	}
	return submissionstore.New(files)
}

func enable(t *testing.T, s *submissionstore.Store) {
	t.Helper()
	settings := models.DefaultFileSubmissionSettings()
	settings.Enabled = true
	if err := s.SaveSettings(context.Background(), settings); err != nil {
		t.Fatal(err)
	}
}

func TestRecordRejectsWhenDisabled(t *testing.T) {
	s := newStore(t)

	_, err := s.Record(context.Background(), 1, models.FileSubmission{
		Filename: "report.pdf", Size: 1024,
	})
	if !faults.Is(err, faults.ValidationFailed) {
		t.Errorf("expected ValidationFailed while disabled, got %v", err)
	}
}

func TestRecordAndListByGroup(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	enable(t, s)

	stored, err := s.Record(ctx, 3, models.FileSubmission{
		Filename: "Report.PDF", Size: 2048, ProjectName: "Smart Parking", GroupLeader: "CS101",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if stored.ID == "" || stored.UploadedAt.IsZero() {
		t.Errorf("record not stamped: %+v", stored)
	}

	subs, err := s.ByGroup(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Filename != "Report.PDF" {
		t.Errorf("got %+v", subs)
	}

	other, err := s.ByGroup(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("unrelated group has files: %+v", other)
	}
}

func TestRecordCollectsAllReasons(t *testing.T) {
	s := newStore(t)
	enable(t, s)

	_, err := s.Record(context.Background(), 1, models.FileSubmission{
		Filename: "malware.exe", Size: 50 * 1024 * 1024,
	})
	if !faults.Is(err, faults.ValidationFailed) {
		t.Fatalf("expected ValidationFailed, got %v", err)
	}
	if reasons := faults.ReasonsOf(err); len(reasons) != 2 {
		t.Errorf("expected both the format and the size rejection, got %v", reasons)
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := newStore(t)

	settings, err := s.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Enabled {
		t.Error("file submission should start disabled")
	}
	if settings.MaxSizeMB != 10 || len(settings.AllowedFormats) == 0 {
		t.Errorf("unexpected defaults: %+v", settings)
	}
}
