// internal/app/features/submit/handler.go
package submit

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	"github.com/sranand/allochub/internal/app/system/allocation"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

type Handler struct {
	Controller *allocation.Controller
	Groups     *groupstore.Store
	Projects   *projectstore.Store
	Validate   *validator.Validate
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(controller *allocation.Controller, groups *groupstore.Store, projects *projectstore.Store, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{
		Controller: controller,
		Groups:     groups,
		Projects:   projects,
		Validate:   validator.New(),
		ErrLog:     errLog,
		Log:        log,
	}
}

// submitRequest is the form payload. The validator only checks shape;
// the allocation engine owns the domain rules, including whether a
// project was selected, so a missing project is reported alongside the
// other validation failures rather than cut off early.
type submitRequest struct {
	ProjectName string          `json:"project_name"`
	Members     []memberPayload `json:"members" validate:"required,min=1,max=10,dive"`
}

type memberPayload struct {
	Name       string `json:"name" validate:"max=200"`
	RollNumber string `json:"roll_no" validate:"max=50"`
}

type submitResponse struct {
	GroupNumber int          `json:"group_number"`
	Status      string       `json:"status"`
	Group       models.Group `json:"group"`
}

// ServeSubmit handles POST /submit.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	members := make([]models.Member, len(req.Members))
	for i, m := range req.Members {
		members[i] = models.Member{Name: m.Name, RollNumber: m.RollNumber}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "form submission")
	defer cancel()

	group, err := h.Controller.Submit(ctx, req.ProjectName, members)
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	uierrors.JSON(w, http.StatusCreated, submitResponse{
		GroupNumber: group.GroupNumber,
		Status:      group.Status,
		Group:       group,
	})
}

// allocationsView pairs the active groups with the project board.
type allocationsView struct {
	Groups   []models.Group   `json:"groups"`
	Projects []models.Project `json:"projects"`
}

// ServeAllocations handles GET /allocations: the public results board.
func (h *Handler) ServeAllocations(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Groups.Active()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	projects, err := h.Projects.Active()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, allocationsView{Groups: groups, Projects: projects})
}
