package shorturls_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	"github.com/sranand/allochub/internal/app/features/shorturls"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	"github.com/sranand/allochub/internal/app/store/jsonstore"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	shortstore "github.com/sranand/allochub/internal/app/store/shortlinks"
	"github.com/sranand/allochub/internal/app/system/auth"
)

type env struct {
	router  http.Handler
	links   *shortstore.Store
	archive *archivestore.Store
}

func newEnv(t *testing.T) env {
	t.Helper()
	files, err := jsonstore.New(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	log := zap.NewNop()
	links := shortstore.New(files)
	archive := archivestore.New(files)
	h := shorturls.NewHandler(links, settingsstore.New(files), archive, uierrors.NewErrorLogger(log), log)
	return env{router: shorturls.Routes(h), links: links, archive: archive}
}

func do(t *testing.T, e env, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = auth.WithTestAdmin(req, "admin")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndList(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodPost, "/", `{"url": "https://example.edu/form"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Code     string `json:"code"`
		ShortURL string `json:"short_url"`
		Target   string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if len(created.Code) != 8 || created.Target != "https://example.edu/form" {
		t.Errorf("created: %+v", created)
	}
	if !strings.Contains(created.ShortURL, "?short="+created.Code) {
		t.Errorf("short url: %s", created.ShortURL)
	}

	rec = do(t, e, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var listed []struct {
		Code   string `json:"code"`
		Clicks int    `json:"clicks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Code != created.Code || listed[0].Clicks != 0 {
		t.Errorf("listed: %+v", listed)
	}
}

func TestCreateMissingURL(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodPost, "/", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rec.Code)
	}
}

func TestDeleteArchivesLink(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodPost, "/", `{"url": "https://example.edu/form"}`)
	if rec.Code != http.StatusCreated {
		t.Fatal(rec.Body.String())
	}
	var created struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	rec = do(t, e, http.MethodDelete, "/"+created.Code, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d, body %s", rec.Code, rec.Body.String())
	}

	if _, err := e.links.Get(created.Code); err == nil {
		t.Error("link still resolvable after delete")
	}
	records, err := e.archive.List("short_url")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("archive records: %d, want 1", len(records))
	}
}

func TestDeleteUnknownCode(t *testing.T) {
	e := newEnv(t)

	rec := do(t, e, http.MethodDelete, "/AAAAAAAA", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rec.Code)
	}
}
