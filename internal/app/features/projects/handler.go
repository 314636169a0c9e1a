// internal/app/features/projects/handler.go
package projects

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	"github.com/sranand/allochub/internal/app/system/allocation"
	"github.com/sranand/allochub/internal/app/system/auth"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

// Handler is the admin project board: add, inspect, adjudicate, delete.
type Handler struct {
	Projects   *projectstore.Store
	Controller *allocation.Controller
	Validate   *validator.Validate
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(projects *projectstore.Store, controller *allocation.Controller, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{
		Projects:   projects,
		Controller: controller,
		Validate:   validator.New(),
		ErrLog:     errLog,
		Log:        log,
	}
}

// ServeList handles GET /admin/projects. ?include=deleted widens the
// view to the full collection.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var (
		projects []models.Project
		err      error
	)
	if r.URL.Query().Get("include") == "deleted" {
		projects, err = h.Projects.All()
	} else {
		projects, err = h.Projects.Active()
	}
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, projects)
}

type addRequest struct {
	Name string `json:"name" validate:"required,max=300"`
}

// ServeAdd handles POST /admin/projects.
func (h *Handler) ServeAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body is not valid JSON")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		h.ErrLog.RenderBadRequest(w, r, "request body has the wrong shape: "+err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add project")
	defer cancel()

	project, err := h.Projects.Add(ctx, req.Name, models.StatusNotSelected)
	if err != nil {
		if errors.Is(err, projectstore.ErrDuplicateProject) {
			h.ErrLog.RenderValidation(w, r, []string{err.Error()})
			return
		}
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, project)
}

type deleteRequest struct {
	Reason  string `json:"reason"`
	Cascade bool   `json:"cascade"`
}

// ServeDelete handles DELETE /admin/projects/{name}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req deleteRequest
	if r.Body != nil {
		// An empty body means a plain delete with no reason.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	admin, _ := auth.CurrentAdmin(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete project")
	defer cancel()

	if err := h.Controller.DeleteProject(ctx, name, admin.Username, req.Reason, req.Cascade); err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "deleted", "project": name})
}
