package health

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store *jsonstore.Store
	Log   *zap.Logger
}

func NewHandler(store *jsonstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and { "status":"ok", "storage":"available" }
// On storage failure: 503 and { "status":"error", "storage":"unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.Store.Ping(); err != nil {
		h.Log.Error("health-check: data dir unreachable", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "error",
			Storage: "unavailable",
			Error:   err.Error(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Storage: "available"})
}
