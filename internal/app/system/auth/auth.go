// Package auth manages the administrator session: a signed cookie issued
// after a password login, loaded into the request context by middleware,
// and required by the admin API surface.
package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey   = "is_authenticated"
	usernameKey = "username"
)

type ctxKey string

const adminKey ctxKey = "adminUser"

// Admin is what we cache in the session and inject into r.Context().
type Admin struct {
	Username string
}

// SessionManager owns the cookie store. There are no package-level
// globals; handlers receive the manager through their deps.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. secure
// controls the cookie's Secure flag and should be true outside dev.
func NewSessionManager(key []byte, name, domain string, secure bool, log *zap.Logger) *SessionManager {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   12 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: log}
}

// CurrentAdmin returns the signed-in admin and a found flag.
func CurrentAdmin(r *http.Request) (Admin, bool) {
	a, ok := r.Context().Value(adminKey).(Admin)
	return a, ok
}

// SignIn marks the session as authenticated for username.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, username string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[usernameKey] = username
	return sess.Save(r, w)
}

// SignOut clears the session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	sess.Values = make(map[any]any)
	return sess.Save(r, w)
}

// LoadSession injects the admin into the request context when the
// session cookie is present and valid. A cookie that fails to decode
// (rotated key, tampering) is treated as signed out, not as an error.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				sm.log.Debug("discarding undecodable session cookie")
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			username, _ := sess.Values[usernameKey].(string)
			r = withAdmin(r, Admin{Username: username})
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests with no signed-in admin. This is a JSON
// API, so the failure is a 401 body rather than a login redirect.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentAdmin(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"kind":"unauthorized","detail":"admin sign-in required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withAdmin(r *http.Request, a Admin) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), adminKey, a))
}

// WithTestAdmin returns a copy of r carrying an admin context. Tests use
// it to exercise handlers behind RequireAdmin without a cookie round trip.
func WithTestAdmin(r *http.Request, username string) *http.Request {
	return withAdmin(r, Admin{Username: username})
}
