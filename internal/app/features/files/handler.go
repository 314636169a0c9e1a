// internal/app/features/files/handler.go
package files

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	deadlinestore "github.com/sranand/allochub/internal/app/store/deadlines"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	submissionstore "github.com/sranand/allochub/internal/app/store/submissions"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

// Handler records project-file uploads against groups. File submission
// has its own enable flag and deadline entry, independent of which
// channel the main form is collecting.
type Handler struct {
	Groups      *groupstore.Store
	Submissions *submissionstore.Store
	Deadlines   *deadlinestore.Store
	Validate    *validator.Validate
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(groups *groupstore.Store, submissions *submissionstore.Store, deadlines *deadlinestore.Store, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{
		Groups:      groups,
		Submissions: submissions,
		Deadlines:   deadlines,
		Validate:    validator.New(),
		ErrLog:      errLog,
		Log:         log,
	}
}

type uploadRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Size     int64  `json:"size" validate:"required"`
}

// ServeUpload handles POST /files/{groupNumber}.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	groupNumber, err := strconv.Atoi(chi.URLParam(r, "groupNumber"))
	if err != nil {
		h.ErrLog.RenderBadRequest(w, r, "group number must be an integer")
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	if err := h.checkDeadline(time.Now()); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	group, err := h.Groups.ByNumber(groupNumber)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "record file upload")
	defer cancel()

	stored, err := h.Submissions.Record(ctx, groupNumber, models.FileSubmission{
		Filename:    req.Filename,
		Size:        req.Size,
		ProjectName: group.ProjectName,
		GroupLeader: group.Leader().RollNumber,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	uierrors.JSON(w, http.StatusCreated, stored)
}

// ServeList handles GET /files/{groupNumber}.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	groupNumber, err := strconv.Atoi(chi.URLParam(r, "groupNumber"))
	if err != nil {
		h.ErrLog.RenderBadRequest(w, r, "group number must be an integer")
		return
	}
	if _, err := h.Groups.ByNumber(groupNumber); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	subs, err := h.Submissions.ByGroup(groupNumber)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	if subs == nil {
		subs = []models.FileSubmission{}
	}
	uierrors.JSON(w, http.StatusOK, subs)
}

// checkDeadline closes uploads after the project_files cutoff. The
// channel has no form-mode requirement; the enable flag in the upload
// settings is the on/off switch.
func (h *Handler) checkDeadline(now time.Time) error {
	d, configured, err := h.Deadlines.Get(models.ChannelProjectFiles)
	if err != nil {
		return err
	}
	if configured && d.Enabled && !now.Before(d.Cutoff) {
		detail := d.Message
		if detail == "" {
			detail = "the file submission deadline has passed"
		}
		return faults.New(faults.DeadlineClosed, detail)
	}
	return nil
}
