package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/xavierca1/unic-leads/internal/infra/http/middleware"
	"github.com/xavierca1/unic-leads/internal/usecase"
)

type RelayResponse struct {
	Message string `json:"message"`
}

// RelayHandler is the server side of the notification relay. It accepts
// every method so it can answer OPTIONS and 405 itself.
type RelayHandler struct {
	UseCase *usecase.ForwardApplicationUseCase
	Logger  *slog.Logger
}

func NewRelayHandler(uc *usecase.ForwardApplicationUseCase, logger *slog.Logger) *RelayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelayHandler{UseCase: uc, Logger: logger}
}

func (h *RelayHandler) Handle(w http.ResponseWriter, r *http.Request) {
	setRelayCORS(w, "POST, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, RelayResponse{Message: "Method Not Allowed"})
		return
	}

	var input usecase.ForwardApplicationInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, RelayResponse{Message: "Invalid JSON"})
		return
	}

	err := h.UseCase.Execute(r.Context(), input)
	var de *usecase.DomainError
	switch {
	case err == nil:
		h.Logger.Info("✅ application forwarded to telegram")
		writeJSON(w, http.StatusOK, RelayResponse{Message: "Application submitted successfully"})
	case errors.As(err, &de):
		writeJSON(w, http.StatusBadRequest, RelayResponse{Message: de.Message})
	case errors.Is(err, usecase.ErrRelayNotConfigured):
		h.Logger.Error("❌ relay credentials missing", "error", err)
		writeJSON(w, http.StatusInternalServerError, RelayResponse{Message: "Server configuration error"})
	default:
		middleware.RecordIntegrationError("telegram")
		h.Logger.Error("❌ relay delivery failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, RelayResponse{Message: "Internal Server Error"})
	}
}

func setRelayCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", methods)
}
