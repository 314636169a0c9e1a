package projects_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	"github.com/sranand/allochub/internal/app/features/projects"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	deadlinestore "github.com/sranand/allochub/internal/app/store/deadlines"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	"github.com/sranand/allochub/internal/app/store/jsonstore"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	"github.com/sranand/allochub/internal/app/system/allocation"
	"github.com/sranand/allochub/internal/app/system/auth"
	"github.com/sranand/allochub/internal/app/system/deadline"
	"github.com/sranand/allochub/internal/domain/models"
)

type env struct {
	handler    *projects.Handler
	router     http.Handler
	projects   *projectstore.Store
	groups     *groupstore.Store
	archive    *archivestore.Store
	controller *allocation.Controller
}

func newEnv(t *testing.T) env {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	log := zap.NewNop()
	projectStore := projectstore.New(files)
	groupStore := groupstore.New(files)
	archiveStore := archivestore.New(files)
	gate := deadline.NewGate(settingsstore.New(files), deadlinestore.New(files))
	controller := allocation.NewController(files, archiveStore, gate, log)
	h := projects.NewHandler(projectStore, controller, uierrors.NewErrorLogger(log), log)
	return env{
		handler:    h,
		router:     projects.Routes(h),
		projects:   projectStore,
		groups:     groupStore,
		archive:    archiveStore,
		controller: controller,
	}
}

func do(t *testing.T, e env, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	target := (&url.URL{Path: path}).String()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = auth.WithTestAdmin(req, "admin")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestAddAndList(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodPost, "/", `{"name": "Smart Parking"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var listed []models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Name != "Smart Parking" {
		t.Errorf("listed: %+v", listed)
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	e := newEnv(t)

	if rec := do(t, e, http.MethodPost, "/", `{"name": "Smart Parking"}`); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}
	rec := do(t, e, http.MethodPost, "/", `{"name": "Smart Parking"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate: got %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestAddMissingName(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodPost, "/", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rec.Code)
	}
}

func TestDeleteUnclaimedProject(t *testing.T) {
	e := newEnv(t)

	if rec := do(t, e, http.MethodPost, "/", `{"name": "Smart Parking"}`); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}
	rec := do(t, e, http.MethodDelete, "/Smart Parking", `{"reason": "retired"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d, body %s", rec.Code, rec.Body.String())
	}

	active, err := e.projects.Active()
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("active after delete: %+v", active)
	}
	records, err := e.archive.List("project")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("archive records: %d, want 1", len(records))
	}
}

func TestDeleteClaimedProjectNeedsCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if rec := do(t, e, http.MethodPost, "/", `{"name": "Smart Parking"}`); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}
	_, err := e.controller.Submit(ctx, "Smart Parking", []models.Member{
		{Name: "Alice", RollNumber: "CS101"},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, e, http.MethodDelete, "/Smart Parking", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("claimed without cascade: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodDelete, "/Smart Parking", `{"cascade": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("cascade: got %d, body %s", rec.Code, rec.Body.String())
	}
	groups, err := e.groups.Active()
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Errorf("active groups after cascade: %+v", groups)
	}
}

func TestDeleteUnknownProject(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodDelete, "/No Such", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rec.Code)
	}
}
