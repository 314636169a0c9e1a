// internal/app/features/coursework/routes.go
package coursework

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/{channel}", h.ServeSubmit)
	return r
}
