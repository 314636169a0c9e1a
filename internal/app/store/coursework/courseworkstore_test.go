package courseworkstore_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	courseworkstore "github.com/sranand/allochub/internal/app/store/coursework"
	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

func newStore(t *testing.T) *courseworkstore.Store {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("jsonstore.New failed: %v", err)
	}
	return courseworkstore.New(files)
}

func TestRecordKeepsChannelsSeparate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	stored, err := s.Record(ctx, models.ChannelLabManual, models.CourseworkSubmission{
		RollNumber: "CS101", Filename: "lab1.pdf", Size: 512,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if stored.ID == "" || stored.SubmittedAt.IsZero() {
		t.Errorf("record not stamped: %+v", stored)
	}

	labs, err := s.List(models.ChannelLabManual)
	if err != nil {
		t.Fatal(err)
	}
	if len(labs) != 1 || labs[0].RollNumber != "CS101" {
		t.Errorf("got %+v", labs)
	}

	assignments, err := s.List(models.ChannelClassAssignment)
	if err != nil {
		t.Fatal(err)
	}
	if len(assignments) != 0 {
		t.Errorf("assignment channel should be empty, got %+v", assignments)
	}
}

func TestResubmissionKeepsBoth(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := s.Record(ctx, models.ChannelClassAssignment, models.CourseworkSubmission{
			RollNumber: "CS101", Filename: "hw.pdf", Size: 512,
		}); err != nil {
			t.Fatal(err)
		}
	}
	subs, err := s.List(models.ChannelClassAssignment)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected both hand-ins kept, got %d", len(subs))
	}
	if subs[0].ID == subs[1].ID {
		t.Error("hand-ins share an id")
	}
}

func TestNonCourseworkChannelRejected(t *testing.T) {
	s := newStore(t)

	if _, err := s.List(models.ChannelProjectAllocation); !faults.Is(err, faults.ValidationFailed) {
		t.Errorf("expected ValidationFailed, got %v", err)
	}
	_, err := s.Record(context.Background(), models.ChannelProjectFiles, models.CourseworkSubmission{})
	if !faults.Is(err, faults.ValidationFailed) {
		t.Errorf("expected ValidationFailed, got %v", err)
	}
}
