package archive_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/features/archive"
	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/auth"
	"github.com/sranand/allochub/internal/domain/models"
)

type env struct {
	router http.Handler
	store  *archivestore.Store
}

func newEnv(t *testing.T) env {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	log := zap.NewNop()
	store := archivestore.New(files)
	h := archive.NewHandler(store, uierrors.NewErrorLogger(log), log)
	return env{router: archive.Routes(h), store: store}
}

func do(t *testing.T, e env, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := auth.WithTestAdmin(httptest.NewRequest(method, path, nil), "admin")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, e env, dataType string) models.ArchiveRecord {
	t.Helper()
	rec, err := e.store.Write(dataType, map[string]string{"name": "Smart Parking"}, "admin", "cleanup")
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestListFiltersByType(t *testing.T) {
	e := newEnv(t)
	seed(t, e, "project")
	seed(t, e, "group")

	rec := do(t, e, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var all []models.ArchiveRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("all: %d records", len(all))
	}

	rec = do(t, e, http.MethodGet, "/?type=project")
	var projects []models.ArchiveRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].DataType != "project" {
		t.Errorf("filtered: %+v", projects)
	}
}

func TestGetRecord(t *testing.T) {
	e := newEnv(t)
	seeded := seed(t, e, "project")

	rec := do(t, e, http.MethodGet, "/"+seeded.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.ArchiveRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.DeletedBy != "admin" || got.Reason != "cleanup" {
		t.Errorf("record: %+v", got)
	}
}

func TestGetUnknownRecord(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodGet, "/project_deleted_20200101_000000")
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rec.Code)
	}
}

func TestPurgeRecord(t *testing.T) {
	e := newEnv(t)
	seeded := seed(t, e, "project")

	rec := do(t, e, http.MethodDelete, "/"+seeded.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, body %s", rec.Code, rec.Body.String())
	}
	if _, err := e.store.Get(seeded.ID); err == nil {
		t.Error("record still readable after purge")
	}
}

func TestPurgeAll(t *testing.T) {
	e := newEnv(t)
	seed(t, e, "project")
	seed(t, e, "group")

	rec := do(t, e, http.MethodDelete, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Removed != 2 {
		t.Errorf("removed: %d, want 2", resp.Removed)
	}
	left, err := e.store.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("records left: %+v", left)
	}
}
