package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"ddsync/internal/engine/webhook"
	apiErrors "ddsync/internal/pkg/errors"
)

// GoCardless expects 498 for a signature that does not verify.
const statusInvalidToken = 498

type WebhookHandler struct {
	live          *webhook.Processor
	sandbox       *webhook.Processor
	liveSecret    string
	sandboxSecret string
}

func NewWebhookHandler(live, sandbox *webhook.Processor, liveSecret, sandboxSecret string) *WebhookHandler {
	return &WebhookHandler{
		live:          live,
		sandbox:       sandbox,
		liveSecret:    liveSecret,
		sandboxSecret: sandboxSecret,
	}
}

// Handle processes one webhook delivery. Signature and parse failures reject
// the whole request; anything after that always acknowledges so the provider
// stops retrying a delivery we have already durably processed.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apiErrors.WriteError(w, http.StatusBadRequest, apiErrors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	matched, err := webhook.Verify(r.Header.Get("Webhook-Signature"), body, h.liveSecret, h.sandboxSecret)
	if err != nil {
		if errors.Is(err, webhook.ErrUnsignedRequest) {
			apiErrors.WriteError(w, http.StatusUnauthorized, apiErrors.ErrCodeUnauthorized, "Unsigned webhook request", nil)
		} else {
			apiErrors.WriteError(w, statusInvalidToken, apiErrors.ErrCodeInvalidSignature, "Invalid signature in request", nil)
		}
		return
	}

	events, err := webhook.ParseEvents(body)
	if err != nil {
		apiErrors.WriteError(w, http.StatusBadRequest, apiErrors.ErrCodeInvalidInput, "Invalid or missing data in request", nil)
		return
	}

	processor := h.live
	if matched == 1 {
		processor = h.sandbox
	}

	result := processor.Process(r.Context(), events)
	applied, ignored, failed := result.Counts()
	log.Info().
		Int("events", len(events)).
		Int("applied", applied).
		Int("ignored", ignored).
		Int("failed", failed).
		Bool("test_mode", matched == 1).
		Msg("webhook delivery processed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}
