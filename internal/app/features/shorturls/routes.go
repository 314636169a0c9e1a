// internal/app/features/shorturls/routes.go
package shorturls

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Delete("/{code}", h.ServeDelete)
	return r
}
