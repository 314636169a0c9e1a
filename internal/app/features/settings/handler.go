// internal/app/features/settings/handler.go
package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	credentialstore "github.com/sranand/allochub/internal/app/store/credentials"
	deadlinestore "github.com/sranand/allochub/internal/app/store/deadlines"
	formcontentstore "github.com/sranand/allochub/internal/app/store/formcontent"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	submissionstore "github.com/sranand/allochub/internal/app/store/submissions"
	"github.com/sranand/allochub/internal/app/system/htmlsanitize"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

// Handler is the admin settings console: runtime config, channel
// deadlines, form content, upload rules, and the admin password.
type Handler struct {
	Settings    *settingsstore.Store
	Deadlines   *deadlinestore.Store
	FormContent *formcontentstore.Store
	Submissions *submissionstore.Store
	Credentials *credentialstore.Store
	Validate    *validator.Validate
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(
	settings *settingsstore.Store,
	deadlines *deadlinestore.Store,
	formContent *formcontentstore.Store,
	submissions *submissionstore.Store,
	credentials *credentialstore.Store,
	errLog *uierrors.ErrorLogger,
	log *zap.Logger,
) *Handler {
	return &Handler{
		Settings:    settings,
		Deadlines:   deadlines,
		FormContent: formContent,
		Submissions: submissions,
		Credentials: credentials,
		Validate:    validator.New(),
		ErrLog:      errLog,
		Log:         log,
	}
}

// ServeGetConfig handles GET /admin/settings/config.
func (h *Handler) ServeGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Settings.Get()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, cfg)
}

// configRequest uses pointers so the admin can change one field without
// restating the rest.
type configRequest struct {
	MaxMembers           *int    `json:"max_members" validate:"omitempty,min=1,max=20"`
	NextGroupNumber      *int    `json:"next_group_number" validate:"omitempty,min=1"`
	FormPublished        *bool   `json:"form_published"`
	FormMode             *string `json:"form_mode"`
	EnableFileSubmission *bool   `json:"enable_file_submission"`
	BaseURL              *string `json:"base_url" validate:"omitempty,url"`
}

// ServeUpdateConfig handles PUT /admin/settings/config.
func (h *Handler) ServeUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}
	if req.FormMode != nil && !models.ValidChannel(*req.FormMode) {
		h.ErrLog.RenderValidation(w, r, []string{*req.FormMode + " is not a submission channel"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update config")
	defer cancel()

	updated, err := h.Settings.Update(ctx, func(cfg *models.Config) error {
		if req.MaxMembers != nil {
			cfg.MaxMembers = *req.MaxMembers
		}
		if req.NextGroupNumber != nil {
			// Lowering the counter below an issued number would reuse
			// group numbers, so only forward moves are applied.
			if *req.NextGroupNumber > cfg.NextGroupNumber {
				cfg.NextGroupNumber = *req.NextGroupNumber
			}
		}
		if req.FormPublished != nil {
			cfg.FormPublished = *req.FormPublished
		}
		if req.FormMode != nil {
			cfg.FormMode = *req.FormMode
		}
		if req.EnableFileSubmission != nil {
			cfg.EnableFileSubmission = *req.EnableFileSubmission
		}
		if req.BaseURL != nil {
			cfg.BaseURL = *req.BaseURL
		}
		return nil
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, updated)
}

// ServeGetDeadlines handles GET /admin/settings/deadlines.
func (h *Handler) ServeGetDeadlines(w http.ResponseWriter, r *http.Request) {
	all, err := h.Deadlines.All()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, all)
}

type deadlineRequest struct {
	Enabled bool      `json:"enabled"`
	Cutoff  time.Time `json:"cutoff"`
	Message string    `json:"message"`
}

// ServeSetDeadline handles PUT /admin/settings/deadlines/{channel}.
func (h *Handler) ServeSetDeadline(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	var req deadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if req.Enabled && req.Cutoff.IsZero() {
		h.ErrLog.RenderValidation(w, r, []string{"an enabled deadline needs a cutoff"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set deadline")
	defer cancel()

	err := h.Deadlines.Upsert(ctx, channel, models.Deadline{
		Enabled: req.Enabled,
		Cutoff:  req.Cutoff,
		Message: req.Message,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "saved", "channel": channel})
}

// ServeGetFormContent handles GET /admin/settings/form-content.
func (h *Handler) ServeGetFormContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.FormContent.Get()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, content)
}

// ServeSetCoverPage handles PUT /admin/settings/form-content/cover-page.
// Content is sanitized before it is stored.
func (h *Handler) ServeSetCoverPage(w http.ResponseWriter, r *http.Request) {
	var page models.CoverPage
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	page.Content = htmlsanitize.Sanitize(page.Content)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "save cover page")
	defer cancel()

	if err := h.FormContent.SaveCoverPage(ctx, page); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ServeSetFormHeader handles PUT /admin/settings/form-content/header.
func (h *Handler) ServeSetFormHeader(w http.ResponseWriter, r *http.Request) {
	var header models.FormHeader
	if err := json.NewDecoder(r.Body).Decode(&header); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	header.Description = htmlsanitize.Sanitize(header.Description)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "save form header")
	defer cancel()

	if err := h.FormContent.SaveFormHeader(ctx, header); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ServeGetFileSettings handles GET /admin/settings/file-submission.
func (h *Handler) ServeGetFileSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Submissions.Settings()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, settings)
}

type fileSettingsRequest struct {
	Enabled        bool     `json:"enabled"`
	AllowedFormats []string `json:"allowed_formats" validate:"required,min=1,dive,startswith=."`
	MaxSizeMB      int      `json:"max_size_mb" validate:"required,min=1,max=500"`
	Instructions   string   `json:"instructions"`
}

// ServeSetFileSettings handles PUT /admin/settings/file-submission.
func (h *Handler) ServeSetFileSettings(w http.ResponseWriter, r *http.Request) {
	var req fileSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "save file settings")
	defer cancel()

	err := h.Submissions.SaveSettings(ctx, models.FileSubmissionSettings{
		Enabled:        req.Enabled,
		AllowedFormats: req.AllowedFormats,
		MaxSizeMB:      req.MaxSizeMB,
		Instructions:   req.Instructions,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type passwordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
	Confirm string `json:"confirm_password"`
}

// ServeChangePassword handles POST /admin/settings/password.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "change password")
	defer cancel()

	err := h.Credentials.ChangePassword(ctx, req.Current, req.New, req.Confirm)
	switch {
	case err == nil:
		h.Log.Info("admin password changed")
		uierrors.JSON(w, http.StatusOK, map[string]string{"status": "changed"})
	case errors.Is(err, credentialstore.ErrPasswordTooShort),
		errors.Is(err, credentialstore.ErrPasswordMismatch),
		errors.Is(err, credentialstore.ErrCurrentIncorrect):
		h.ErrLog.RenderValidation(w, r, []string{err.Error()})
	default:
		h.ErrLog.Render(w, r, err)
	}
}
