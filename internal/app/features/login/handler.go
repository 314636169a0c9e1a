// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	credentialstore "github.com/sranand/allochub/internal/app/store/credentials"
	"github.com/sranand/allochub/internal/app/system/auth"
)

type Handler struct {
	Credentials *credentialstore.Store
	SessionMgr  *auth.SessionManager
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(credentials *credentialstore.Store, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{Credentials: credentials, SessionMgr: sm, ErrLog: errLog, Log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeLogin handles POST /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}

	if err := h.Credentials.Verify(req.Username, req.Password); err != nil {
		if errors.Is(err, credentialstore.ErrBadCredentials) {
			h.Log.Info("failed admin login", zap.String("username", req.Username))
			h.ErrLog.RenderUnauthorized(w, r, "invalid username or password")
			return
		}
		h.ErrLog.Render(w, r, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, req.Username); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	h.Log.Info("admin signed in", zap.String("username", req.Username))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "signed_in"})
}
