// internal/app/features/projects/routes.go
package projects

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeAdd)
	r.Delete("/{name}", h.ServeDelete)
	return r
}
