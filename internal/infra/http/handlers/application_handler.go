package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/xavierca1/unic-leads/internal/infra/http/middleware"
	"github.com/xavierca1/unic-leads/internal/infra/session"
	"github.com/xavierca1/unic-leads/internal/usecase"
)

const DefaultFormSource = "main_form"

type ApplicationHandler struct {
	Forms       *FormRegistry
	Sessions    *session.Store
	Logger      *slog.Logger
	rateLimiter *RateLimiter
}

func NewApplicationHandler(forms *FormRegistry, sessions *session.Store, logger *slog.Logger) *ApplicationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationHandler{
		Forms:       forms,
		Sessions:    sessions,
		Logger:      logger,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// RateLimiter exposes the submit limiter so the server can run its cleanup.
func (h *ApplicationHandler) RateLimiter() *RateLimiter {
	return h.rateLimiter
}

type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Fields map[string]string `json:"fields,omitempty"`
}

type FormStateResponse struct {
	usecase.StateView
	Source string                         `json:"source"`
	Values usecase.SubmitApplicationInput `json:"values"`
}

// Submit handles POST /api/applications.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.SubmitApplicationInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if input.Source == "" {
		input.Source = sourceOf(r)
	}

	form := h.form(r, input.Source)
	out, err := form.Submit(r.Context(), input)
	if err == nil {
		middleware.RecordApplication("stored")
		writeJSON(w, http.StatusCreated, out)
		return
	}

	var verrs usecase.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		middleware.RecordApplication("invalid")
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: usecase.ValidationFailedBanner,
			Fields:  verrs.ByField(),
		})
	case errors.Is(err, usecase.ErrSubmissionInProgress):
		middleware.RecordApplication("in_progress")
		writeErrorResponse(w, http.StatusConflict, "SUBMISSION_IN_PROGRESS", "Заявка уже отправляется")
	case errors.Is(err, usecase.ErrFormDetached):
		middleware.RecordApplication("detached")
		h.Logger.Info("submit finished after the client went away", "source", input.Source)
		writeErrorResponse(w, http.StatusRequestTimeout, "FORM_DETACHED", usecase.GenericSubmitError)
	case usecase.IsStoreUnavailable(err):
		middleware.RecordApplication("store_error")
		writeErrorResponse(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", usecase.PublicMessage(err))
	default:
		middleware.RecordApplication("internal_error")
		h.Logger.Error("❌ unexpected submit error", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", usecase.GenericSubmitError)
	}
}

// Validate handles POST /api/applications/validate (per-keystroke checks).
func (h *ApplicationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitApplicationInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if input.Source == "" {
		input.Source = sourceOf(r)
	}

	errs := h.form(r, input.Source).Validate(input)
	resp := ValidateResponse{Valid: len(errs) == 0}
	if len(errs) > 0 {
		resp.Fields = errs.ByField()
	}
	writeJSON(w, http.StatusOK, resp)
}

// State handles GET /api/applications/state.
func (h *ApplicationHandler) State(w http.ResponseWriter, r *http.Request) {
	source := sourceOf(r)
	form := h.form(r, source)

	writeJSON(w, http.StatusOK, FormStateResponse{
		StateView: usecase.DescribeState(form.State()),
		Source:    source,
		Values:    form.Values(),
	})
}

// Reset handles POST /api/applications/reset ("submit another").
func (h *ApplicationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	source := sourceOf(r)
	form := h.form(r, source)

	if !form.Reset() {
		writeErrorResponse(w, http.StatusConflict, "NOTHING_TO_RESET", "form is "+form.State().StateName())
		return
	}

	writeJSON(w, http.StatusOK, FormStateResponse{
		StateView: usecase.DescribeState(form.State()),
		Source:    source,
		Values:    form.Values(),
	})
}

func (h *ApplicationHandler) form(r *http.Request, source string) *usecase.ApplicationForm {
	sid := middleware.SessionID(r.Context())
	return h.Forms.Get(sid, source, h.Sessions.Scope(sid))
}

func sourceOf(r *http.Request) string {
	if s := r.URL.Query().Get("source"); s != "" {
		return s
	}
	return DefaultFormSource
}
