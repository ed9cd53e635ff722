package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "ddsync/internal/api/context"
	"ddsync/internal/pkg/errors"
	"ddsync/internal/platform/models"
	"ddsync/internal/platform/repositories"
)

type BillingHandler struct {
	billing    *repositories.Billing
	deliveries *repositories.DeliveryRepository
}

func NewBillingHandler(billing *repositories.Billing, deliveries *repositories.DeliveryRepository) *BillingHandler {
	return &BillingHandler{billing: billing, deliveries: deliveries}
}

// GetRecurring looks a recurring contribution up by its provider
// subscription id and returns it with its contributions.
func (h *BillingHandler) GetRecurring(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	trxnID := params.ByName("trxn_id")
	isTest := r.URL.Query().Get("is_test") == "1"

	recur, err := h.billing.RecurringByTrxnID(trxnID, isTest)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if recur == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "No recurring contribution for subscription "+trxnID, nil)
		return
	}

	contributions, err := h.billing.ContributionsForRecur(recur.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	response := struct {
		Recurring     *models.RecurringContribution `json:"recurring_contribution"`
		Contributions []*models.Contribution        `json:"contributions"`
	}{recur, contributions}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ListDeliveries returns recent webhook delivery outcomes, newest first.
func (h *BillingHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "limit must be between 1 and 500", nil)
			return
		}
		limit = n
	}

	deliveries, err := h.deliveries.ListRecent(limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"deliveries": deliveries})
}
