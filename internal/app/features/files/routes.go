// internal/app/features/files/routes.go
package files

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/{groupNumber}", h.ServeUpload)
	r.Get("/{groupNumber}", h.ServeList)
	return r
}
