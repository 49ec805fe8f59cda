package handlers

import (
	"net/http"

	"github.com/xavierca1/unic-leads/internal/infra/http/middleware"
	"github.com/xavierca1/unic-leads/internal/infra/session"
	"github.com/xavierca1/unic-leads/internal/usecase"
)

type ThankYouResponse struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// ThankYouHandler gates the thank-you page on the applicationSent flag.
type ThankYouHandler struct {
	Sessions *session.Store
}

func NewThankYouHandler(sessions *session.Store) *ThankYouHandler {
	return &ThankYouHandler{Sessions: sessions}
}

func (h *ThankYouHandler) Check(w http.ResponseWriter, r *http.Request) {
	storage := h.Sessions.Scope(middleware.SessionID(r.Context()))

	if v, ok := storage.GetItem(usecase.SessionFlagKey); ok && v == "true" {
		writeJSON(w, http.StatusOK, ThankYouResponse{Allowed: true})
		return
	}
	writeJSON(w, http.StatusOK, ThankYouResponse{Allowed: false, Redirect: usecase.HomePath})
}

// Dismiss is the "back to home" action: the flag is cleared so the page
// cannot be reopened without a new submit.
func (h *ThankYouHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	storage := h.Sessions.Scope(middleware.SessionID(r.Context()))
	storage.RemoveItem(usecase.SessionFlagKey)

	writeJSON(w, http.StatusOK, ThankYouResponse{Allowed: false, Redirect: usecase.HomePath})
}
