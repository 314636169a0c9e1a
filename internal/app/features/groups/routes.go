// internal/app/features/groups/routes.go
package groups

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{groupNumber}", h.ServeGet)
	r.Patch("/{groupNumber}/status", h.ServeSetStatus)
	r.Post("/{groupNumber}/members", h.ServeAddMember)
	r.Delete("/{groupNumber}/members/{rollNumber}", h.ServeRemoveMember)
	r.Delete("/{groupNumber}", h.ServeDelete)
	return r
}
