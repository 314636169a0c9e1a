package submit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	"github.com/sranand/allochub/internal/app/features/submit"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	deadlinestore "github.com/sranand/allochub/internal/app/store/deadlines"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	"github.com/sranand/allochub/internal/app/store/jsonstore"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	"github.com/sranand/allochub/internal/app/system/allocation"
	"github.com/sranand/allochub/internal/app/system/deadline"
	"github.com/sranand/allochub/internal/domain/models"
)

type env struct {
	handler  *submit.Handler
	projects *projectstore.Store
	settings *settingsstore.Store
}

func newEnv(t *testing.T) env {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	log := zap.NewNop()
	settings := settingsstore.New(files)
	projects := projectstore.New(files)
	groups := groupstore.New(files)
	gate := deadline.NewGate(settings, deadlinestore.New(files))
	controller := allocation.NewController(files, archivestore.New(files), gate, log)
	h := submit.NewHandler(controller, groups, projects, uierrors.NewErrorLogger(log), log)
	return env{handler: h, projects: projects, settings: settings}
}

func post(t *testing.T, h *submit.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeSubmit(rec, req)
	return rec
}

func TestSubmitCreatesGroup(t *testing.T) {
	e := newEnv(t)
	if _, err := e.projects.Add(context.Background(), "Smart Parking", models.StatusNotSelected); err != nil {
		t.Fatal(err)
	}

	rec := post(t, e.handler, `{
		"project_name": "Smart Parking",
		"members": [
			{"name": "Alice", "roll_no": "CS101"},
			{"name": "Bob", "roll_no": "CS102"}
		]
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		GroupNumber int    `json:"group_number"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.GroupNumber != 1 || resp.Status != models.StatusNotSelected {
		t.Errorf("response: %+v", resp)
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	e := newEnv(t)

	rec := post(t, e.handler, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}

	rec = post(t, e.handler, `{"members": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty member list: got %d, want 400", rec.Code)
	}
}

func TestSubmitMissingProjectReportedWithOtherFailures(t *testing.T) {
	e := newEnv(t)

	// No project chosen and the member has no roll number: both
	// failures come back together instead of the project check
	// cutting the request off early.
	rec := post(t, e.handler, `{
		"members": [{"name": "Alice", "roll_no": ""}]
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Kind    string   `json:"kind"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Kind != "validation_failed" || len(body.Reasons) != 2 {
		t.Fatalf("body: %+v", body)
	}
	found := false
	for _, reason := range body.Reasons {
		if reason == "a project must be selected" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing project not reported: %v", body.Reasons)
	}
}

func TestSubmitValidationFailureListsReasons(t *testing.T) {
	e := newEnv(t)
	if _, err := e.projects.Add(context.Background(), "Smart Parking", models.StatusNotSelected); err != nil {
		t.Fatal(err)
	}

	if rec := post(t, e.handler, `{
		"project_name": "Smart Parking",
		"members": [{"name": "Alice", "roll_no": "CS101"}]
	}`); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}

	rec := post(t, e.handler, `{
		"project_name": "Smart Parking",
		"members": [{"name": "Eve", "roll_no": "CS101"}]
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Kind    string   `json:"kind"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Kind != "validation_failed" || len(body.Reasons) != 2 {
		t.Errorf("body: %+v", body)
	}
}

func TestSubmitClosedForm(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.projects.Add(ctx, "Smart Parking", models.StatusNotSelected); err != nil {
		t.Fatal(err)
	}
	if _, err := e.settings.Update(ctx, func(cfg *models.Config) error {
		cfg.FormPublished = false
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	rec := post(t, e.handler, `{
		"project_name": "Smart Parking",
		"members": [{"name": "Alice", "roll_no": "CS101"}]
	}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deadline_closed") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestAllocationsBoard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.projects.Add(ctx, "Smart Parking", models.StatusNotSelected); err != nil {
		t.Fatal(err)
	}
	if rec := post(t, e.handler, `{
		"project_name": "Smart Parking",
		"members": [{"name": "Alice", "roll_no": "CS101"}]
	}`); rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/allocations", nil)
	rec := httptest.NewRecorder()
	e.handler.ServeAllocations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var view struct {
		Groups   []models.Group   `json:"groups"`
		Projects []models.Project `json:"projects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Groups) != 1 || len(view.Projects) != 1 {
		t.Fatalf("view: %+v", view)
	}
	if view.Projects[0].SelectedByGroup != view.Groups[0].GroupNumber {
		t.Error("board is inconsistent between groups and projects")
	}
}
