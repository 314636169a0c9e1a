// internal/app/features/export/routes.go
package export

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/allocations.csv", h.ServeAllocationsCSV)
	r.Get("/allocations.json", h.ServeAllocationsJSON)
	r.Get("/projects.csv", h.ServeProjectsCSV)
	return r
}
