// internal/app/features/coursework/handler.go
package coursework

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	courseworkstore "github.com/sranand/allochub/internal/app/store/coursework"
	"github.com/sranand/allochub/internal/app/system/deadline"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

// Handler records per-student coursework hand-ins. Unlike project
// files, a coursework channel must be the form's active mode and pass
// its deadline gate.
type Handler struct {
	Coursework *courseworkstore.Store
	Gate       *deadline.Gate
	Validate   *validator.Validate
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(coursework *courseworkstore.Store, gate *deadline.Gate, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{
		Coursework: coursework,
		Gate:       gate,
		Validate:   validator.New(),
		ErrLog:     errLog,
		Log:        log,
	}
}

type handinRequest struct {
	RollNumber  string `json:"roll_no" validate:"required,max=50"`
	GroupNumber int    `json:"group_number" validate:"min=0"`
	Filename    string `json:"filename" validate:"required,max=255"`
	Size        int64  `json:"size" validate:"required"`
}

// ServeSubmit handles POST /coursework/{channel}.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")

	var req handinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	if err := h.Gate.Require(channel, time.Now()); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "record coursework hand-in")
	defer cancel()

	stored, err := h.Coursework.Record(ctx, channel, models.CourseworkSubmission{
		RollNumber:  req.RollNumber,
		GroupNumber: req.GroupNumber,
		Filename:    req.Filename,
		Size:        req.Size,
	})
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	uierrors.JSON(w, http.StatusCreated, stored)
}
