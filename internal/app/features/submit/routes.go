// internal/app/features/submit/routes.go
package submit

import "github.com/go-chi/chi/v5"

// Routes serves group submission, mounted under /submit.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeSubmit)
	return r
}

// BoardRoutes serves the public allocation board, mounted under
// /allocations.
func BoardRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAllocations)
	return r
}
