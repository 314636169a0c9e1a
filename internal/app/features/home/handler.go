// internal/app/features/home/handler.go
package home

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	formcontentstore "github.com/sranand/allochub/internal/app/store/formcontent"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	shortstore "github.com/sranand/allochub/internal/app/store/shortlinks"
	submissionstore "github.com/sranand/allochub/internal/app/store/submissions"
	"github.com/sranand/allochub/internal/app/system/deadline"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

type Handler struct {
	Settings    *settingsstore.Store
	Projects    *projectstore.Store
	FormContent *formcontentstore.Store
	ShortLinks  *shortstore.Store
	Submissions *submissionstore.Store
	Gate        *deadline.Gate
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(
	settings *settingsstore.Store,
	projects *projectstore.Store,
	formContent *formcontentstore.Store,
	shortLinks *shortstore.Store,
	submissions *submissionstore.Store,
	gate *deadline.Gate,
	errLog *uierrors.ErrorLogger,
	log *zap.Logger,
) *Handler {
	return &Handler{
		Settings:    settings,
		Projects:    projects,
		FormContent: formContent,
		ShortLinks:  shortLinks,
		Submissions: submissions,
		Gate:        gate,
		ErrLog:      errLog,
		Log:         log,
	}
}

// formView is the public form description students load first.
type formView struct {
	Form           models.FormContent             `json:"form"`
	Channel        deadline.Status                `json:"channel"`
	MaxMembers     int                            `json:"max_members"`
	Projects       []projectOption                `json:"projects"`
	FileSubmission *models.FileSubmissionSettings `json:"file_submission,omitempty"`
}

type projectOption struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Serve handles GET /. With ?short={code} it resolves the short link
// and redirects; otherwise it returns the form description for the
// currently active channel.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("short"); code != "" {
		h.resolveShort(w, r, code)
		return
	}

	cfg, err := h.Settings.Get()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	content, err := h.FormContent.Get()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	status, err := h.Gate.Status(cfg.FormMode, time.Now())
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	active, err := h.Projects.Active()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	view := formView{
		Form:       content,
		Channel:    status,
		MaxMembers: cfg.MaxMembers,
		Projects:   make([]projectOption, 0, len(active)),
	}
	for _, p := range active {
		view.Projects = append(view.Projects, projectOption{
			Name:      p.Name,
			Available: !p.Claimed() && p.Status == models.StatusNotSelected,
		})
	}
	if cfg.EnableFileSubmission {
		settings, err := h.Submissions.Settings()
		if err != nil {
			h.ErrLog.Render(w, r, err)
			return
		}
		view.FileSubmission = &settings
	}

	uierrors.JSON(w, http.StatusOK, view)
}

// resolveShort counts the hit and redirects to the stored target.
func (h *Handler) resolveShort(w http.ResponseWriter, r *http.Request, code string) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "resolve short link")
	defer cancel()

	link, err := h.ShortLinks.Resolve(ctx, code)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	http.Redirect(w, r, link.TargetURL, http.StatusFound)
}
