package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/xavierca1/unic-leads/internal/usecase"
)

type IncomeHandler struct{}

func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{}
}

// Estimate handles GET /api/income?hours=&days=&vehicle=.
func (h *IncomeHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := usecase.IncomeEstimateInput{
		Hours: usecase.DefaultHoursPerDay,
		Days:  usecase.DefaultDaysPerWeek,
	}

	var err error
	if v := q.Get("hours"); v != "" {
		if in.Hours, err = strconv.Atoi(v); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_PARAMS", "hours must be an integer")
			return
		}
	}
	if v := q.Get("days"); v != "" {
		if in.Days, err = strconv.Atoi(v); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_PARAMS", "days must be an integer")
			return
		}
	}
	if v := q.Get("vehicle"); v != "" {
		if in.Vehicle, err = strconv.ParseBool(v); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_PARAMS", "vehicle must be a boolean")
			return
		}
	}

	estimate, err := usecase.EstimateIncome(in)
	if errors.Is(err, usecase.ErrInvalidIncomeParams) {
		writeErrorResponse(w, http.StatusUnprocessableEntity, "INVALID_PARAMS", err.Error())
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, estimate)
}
