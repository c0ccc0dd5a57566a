package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/pkg/common"
)

// PresenceHandler exposes a read-only snapshot of who is active in a
// project. Live updates flow over the WebSocket channel; this endpoint
// exists for initial render and debugging.
type PresenceHandler struct {
	presence ports.PresenceChannel
	logger   *zap.Logger
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(presence ports.PresenceChannel, logger *zap.Logger) *PresenceHandler {
	return &PresenceHandler{presence: presence, logger: logger}
}

// List handles GET /projects/{projectID}/presence
func (h *PresenceHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	selfUserID := r.URL.Query().Get("self")

	peers := h.presence.List(projectID, selfUserID)
	if peers == nil {
		peers = map[string]ports.PresenceState{}
	}
	common.RespondJSON(w, http.StatusOK, peers)
}
