// internal/app/features/shorturls/handler.go
package shorturls

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	shortstore "github.com/sranand/allochub/internal/app/store/shortlinks"
	"github.com/sranand/allochub/internal/app/system/auth"
	"github.com/sranand/allochub/internal/app/system/timeouts"
)

// Handler is the admin short-link console.
type Handler struct {
	ShortLinks *shortstore.Store
	Settings   *settingsstore.Store
	Archive    *archivestore.Store
	Validate   *validator.Validate
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(shortLinks *shortstore.Store, settings *settingsstore.Store, archive *archivestore.Store, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{
		ShortLinks: shortLinks,
		Settings:   settings,
		Archive:    archive,
		Validate:   validator.New(),
		ErrLog:     errLog,
		Log:        log,
	}
}

type linkView struct {
	Code     string `json:"code"`
	ShortURL string `json:"short_url"`
	Target   string `json:"url"`
	Clicks   int    `json:"clicks"`
}

// ServeList handles GET /admin/shorturls.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	links, err := h.ShortLinks.List()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	cfg, err := h.Settings.Get()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	views := make([]linkView, 0, len(links))
	for _, l := range links {
		views = append(views, linkView{
			Code:     l.Code,
			ShortURL: cfg.BaseURL + "/?short=" + l.Code,
			Target:   l.TargetURL,
			Clicks:   l.Clicks,
		})
	}
	uierrors.JSON(w, http.StatusOK, views)
}

type createRequest struct {
	URL string `json:"url" validate:"required,max=2000"`
}

// ServeCreate handles POST /admin/shorturls.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create short link")
	defer cancel()

	link, err := h.ShortLinks.Generate(ctx, req.URL)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	cfg, err := h.Settings.Get()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, linkView{
		Code:     link.Code,
		ShortURL: cfg.BaseURL + "/?short=" + link.Code,
		Target:   link.TargetURL,
	})
}

// ServeDelete handles DELETE /admin/shorturls/{code}: archive the link,
// then remove it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	admin, _ := auth.CurrentAdmin(r)

	link, err := h.ShortLinks.Get(code)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	if _, err := h.Archive.Write("short_url", link, admin.Username, ""); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete short link")
	defer cancel()

	if _, err := h.ShortLinks.Remove(ctx, code); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "deleted", "code": code})
}
