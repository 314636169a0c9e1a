// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	"github.com/sranand/allochub/internal/app/system/auth"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(sm *auth.SessionManager, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{SessionMgr: sm, ErrLog: errLog, Log: log}
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if a, ok := auth.CurrentAdmin(r); ok {
		h.Log.Info("admin signed out", zap.String("username", a.Username))
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
