// internal/app/features/archive/routes.go
package archive

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Delete("/", h.ServePurgeAll)
	r.Get("/{id}", h.ServeGet)
	r.Delete("/{id}", h.ServePurge)
	return r
}
