package handlers

import (
	"net/http"
	"time"

	"github.com/xavierca1/unic-leads/internal/config"
)

type CheckEnvHandler struct {
	Config *config.Config
	Now    func() time.Time
}

func NewCheckEnvHandler(cfg *config.Config) *CheckEnvHandler {
	return &CheckEnvHandler{Config: cfg, Now: time.Now}
}

func (h *CheckEnvHandler) Handle(w http.ResponseWriter, r *http.Request) {
	setRelayCORS(w, "GET, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, config.Diagnose(h.Config, h.Now()))
	default:
		writeJSON(w, http.StatusMethodNotAllowed, RelayResponse{Message: "Method Not Allowed"})
	}
}
