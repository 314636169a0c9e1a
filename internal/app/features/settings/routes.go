// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/config", h.ServeGetConfig)
	r.Put("/config", h.ServeUpdateConfig)
	r.Get("/deadlines", h.ServeGetDeadlines)
	r.Put("/deadlines/{channel}", h.ServeSetDeadline)
	r.Get("/form-content", h.ServeGetFormContent)
	r.Put("/form-content/cover-page", h.ServeSetCoverPage)
	r.Put("/form-content/header", h.ServeSetFormHeader)
	r.Get("/file-submission", h.ServeGetFileSettings)
	r.Put("/file-submission", h.ServeSetFileSettings)
	r.Post("/password", h.ServeChangePassword)
	return r
}
