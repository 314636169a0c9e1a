// internal/app/features/groups/handler.go
package groups

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	"github.com/sranand/allochub/internal/app/system/allocation"
	"github.com/sranand/allochub/internal/app/system/auth"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

// Handler is the admin group roster: inspect, adjudicate, edit members,
// delete.
type Handler struct {
	Groups     *groupstore.Store
	Controller *allocation.Controller
	Validate   *validator.Validate
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(groups *groupstore.Store, controller *allocation.Controller, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{
		Groups:     groups,
		Controller: controller,
		Validate:   validator.New(),
		ErrLog:     errLog,
		Log:        log,
	}
}

func (h *Handler) groupNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "groupNumber"))
	if err != nil {
		h.ErrLog.RenderBadRequest(w, r, "group number must be an integer")
		return 0, false
	}
	return n, true
}

// ServeList handles GET /admin/groups. ?include=deleted widens the view.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var (
		groups []models.Group
		err    error
	)
	if r.URL.Query().Get("include") == "deleted" {
		groups, err = h.Groups.All()
	} else {
		groups, err = h.Groups.Active()
	}
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, groups)
}

// ServeGet handles GET /admin/groups/{groupNumber}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	number, ok := h.groupNumber(w, r)
	if !ok {
		return
	}
	group, err := h.Groups.ByNumber(number)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, group)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ServeSetStatus handles PATCH /admin/groups/{groupNumber}/status. The
// group's project moves to the same status in the same commit.
func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	number, ok := h.groupNumber(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "set group status")
	defer cancel()

	if err := h.Controller.SetStatus(ctx, number, req.Status); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"group_number": number, "status": req.Status})
}

type memberRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	RollNumber string `json:"roll_no" validate:"required,max=50"`
}

// ServeAddMember handles POST /admin/groups/{groupNumber}/members.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	number, ok := h.groupNumber(w, r)
	if !ok {
		return
	}
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add group member")
	defer cancel()

	err := h.Groups.AddMember(ctx, number, models.Member{Name: req.Name, RollNumber: req.RollNumber})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateRoll) {
			h.ErrLog.RenderValidation(w, r, []string{err.Error()})
			return
		}
		h.ErrLog.Render(w, r, err)
		return
	}
	group, err := h.Groups.ByNumber(number)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, group)
}

// ServeRemoveMember handles DELETE /admin/groups/{groupNumber}/members/{rollNumber}.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	number, ok := h.groupNumber(w, r)
	if !ok {
		return
	}
	roll := chi.URLParam(r, "rollNumber")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "remove group member")
	defer cancel()

	if err := h.Groups.RemoveMember(ctx, number, roll); err != nil {
		if errors.Is(err, groupstore.ErrLeaderProtected) {
			h.ErrLog.RenderValidation(w, r, []string{err.Error()})
			return
		}
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"group_number": number, "removed": roll})
}

type deleteRequest struct {
	Reason string `json:"reason"`
}

// ServeDelete handles DELETE /admin/groups/{groupNumber}: archive,
// soft-delete, and release the project claim.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	number, ok := h.groupNumber(w, r)
	if !ok {
		return
	}
	var req deleteRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	admin, _ := auth.CurrentAdmin(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete group")
	defer cancel()

	if err := h.Controller.DeleteGroup(ctx, number, admin.Username, req.Reason); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"status": "deleted", "group_number": number})
}
