// internal/app/features/archive/handler.go
package archive

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	"github.com/sranand/allochub/internal/app/system/auth"
)

// Handler is the admin view over the deletion archive.
type Handler struct {
	Archive *archivestore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(archive *archivestore.Store, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{Archive: archive, ErrLog: errLog, Log: log}
}

// ServeList handles GET /admin/archive. ?type= filters by data type.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Archive.List(r.URL.Query().Get("type"))
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, records)
}

// ServeGet handles GET /admin/archive/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.Archive.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, record)
}

// ServePurge handles DELETE /admin/archive/{id}: permanent removal.
func (h *Handler) ServePurge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Archive.Purge(id); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	admin, _ := auth.CurrentAdmin(r)
	h.Log.Info("archive record purged", zap.String("id", id), zap.String("by", admin.Username))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "purged", "id": id})
}

// ServePurgeAll handles DELETE /admin/archive: empty the archive.
func (h *Handler) ServePurgeAll(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Archive.PurgeAll()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	admin, _ := auth.CurrentAdmin(r)
	h.Log.Info("archive emptied", zap.Int("removed", removed), zap.String("by", admin.Username))
	uierrors.JSON(w, http.StatusOK, map[string]any{"status": "purged", "removed": removed})
}
