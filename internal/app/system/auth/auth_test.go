package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/system/auth"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	key := []byte("test-session-key-must-be-32-char")
	return auth.NewSessionManager(key, "test-session", "", false, zap.NewNop())
}

// protected is a probe handler that reports whether the middleware
// injected an admin into the context.
func protected(t *testing.T, wantAdmin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := auth.CurrentAdmin(r)
		if !ok {
			t.Error("expected admin in context")
			return
		}
		if a.Username != wantAdmin {
			t.Errorf("admin: got %q, want %q", a.Username, wantAdmin)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSignInThenLoadSession(t *testing.T) {
	sm := newSessionManager(t)

	// Sign in and capture the issued cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := sm.SignIn(rec, req, "admin"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn issued no cookie")
	}

	// Replay the cookie through the middleware chain.
	req2 := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	sm.LoadSession(sm.RequireAdmin(protected(t, "admin"))).ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec2.Code)
	}
}

func TestRequireAdminWithoutSession(t *testing.T) {
	sm := newSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	rec := httptest.NewRecorder()
	sm.LoadSession(sm.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a session")
	}))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "unauthorized") {
		t.Errorf("body: got %q", rec.Body.String())
	}
}

func TestUndecodableCookieTreatedAsSignedOut(t *testing.T) {
	sm := newSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "garbage"})
	rec := httptest.NewRecorder()
	sm.LoadSession(sm.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with a broken cookie")
	}))).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestSignOut(t *testing.T) {
	sm := newSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := sm.SignIn(rec, req, "admin"); err != nil {
		t.Fatal(err)
	}
	cookies := rec.Result().Cookies()

	req2 := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	if err := sm.SignOut(rec2, req2); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	found := false
	for _, c := range rec2.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("SignOut did not expire the session cookie")
	}
}

func TestWithTestAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req = auth.WithTestAdmin(req, "admin")
	a, ok := auth.CurrentAdmin(req)
	if !ok || a.Username != "admin" {
		t.Errorf("got %+v ok=%v", a, ok)
	}
}
