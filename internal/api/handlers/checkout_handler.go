package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	apiContext "ddsync/internal/api/context"
	"ddsync/internal/engine/checkout"
	apiErrors "ddsync/internal/pkg/errors"
)

type CheckoutHandler struct {
	service *checkout.Service
}

func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req checkout.BeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErrors.WriteError(w, http.StatusBadRequest, apiErrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.SessionToken == "" || req.ContactID == 0 {
		apiErrors.WriteError(w, http.StatusBadRequest, apiErrors.ErrCodeInvalidInput, "session_token and contact_id are required", nil)
		return
	}

	resp, err := h.service.Begin(r.Context(), &req)
	if err != nil {
		log.Error().Err(err).Int64("contact_id", req.ContactID).Msg("failed to create redirect flow")
		// The caller falls back to its entry page with an error notice.
		apiErrors.WriteError(w, http.StatusBadGateway, apiErrors.ErrCodeProviderError, "Error contacting the payment provider",
			map[string]string{"entry_url": req.EntryURL})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	flowID := params.ByName("flow_id")

	var req struct {
		SessionToken string `json:"session_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErrors.WriteError(w, http.StatusBadRequest, apiErrors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Complete(r.Context(), flowID, req.SessionToken)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownFlow):
			apiErrors.WriteError(w, http.StatusNotFound, apiErrors.ErrCodeNotFound, "Unknown or expired redirect flow", nil)
		case errors.Is(err, checkout.ErrSessionTokenMismatch):
			apiErrors.WriteError(w, http.StatusForbidden, apiErrors.ErrCodeUnauthorized, "Session token mismatch", nil)
		default:
			log.Error().Err(err).Str("flow_id", flowID).Msg("failed to complete redirect flow")
			apiErrors.WriteError(w, http.StatusBadGateway, apiErrors.ErrCodeProviderError, "Error contacting the payment provider", nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
