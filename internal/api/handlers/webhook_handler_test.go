package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"ddsync/internal/engine/webhook"
	"ddsync/internal/platform/repositories"
)

const (
	testLiveSecret    = "live-secret"
	testSandboxSecret = "sandbox-secret"
)

func newWebhookHandler(t *testing.T) (*WebhookHandler, *repositories.DeliveryRepository) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	schema := `
		CREATE TABLE webhook_deliveries (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// The processors only reach the gateway and billing store once an event
	// carries a usable resource link, which these tests never send.
	deliveries := repositories.NewDeliveryRepository(db)
	live := webhook.NewProcessor(nil, nil, deliveries, false)
	sandbox := webhook.NewProcessor(nil, nil, deliveries, true)
	return NewWebhookHandler(live, sandbox, testLiveSecret, testSandboxSecret), deliveries
}

func postWebhook(t *testing.T, h *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	if signature != "" {
		req.Header.Set("Webhook-Signature", signature)
	}
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestWebhookUnsignedRequest(t *testing.T) {
	h, _ := newWebhookHandler(t)

	rr := postWebhook(t, h, `{"events":[]}`, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestWebhookInvalidSignature(t *testing.T) {
	h, _ := newWebhookHandler(t)

	body := `{"events":[]}`
	rr := postWebhook(t, h, body, webhook.Sign("wrong-secret", []byte(body)))
	if rr.Code != statusInvalidToken {
		t.Errorf("status = %d, want 498", rr.Code)
	}
}

func TestWebhookMalformedPayload(t *testing.T) {
	h, _ := newWebhookHandler(t)

	body := `{"not":"a webhook"}`
	rr := postWebhook(t, h, body, webhook.Sign(testLiveSecret, []byte(body)))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestWebhookEmptyDeliveryAcknowledged(t *testing.T) {
	h, _ := newWebhookHandler(t)

	body := `{"events":[]}`
	rr := postWebhook(t, h, body, webhook.Sign(testLiveSecret, []byte(body)))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestWebhookSandboxSecretRoutesToSandboxAndAcknowledges(t *testing.T) {
	h, deliveries := newWebhookHandler(t)

	// A handled event without its payment link fails processing but the
	// delivery is still acknowledged and audited.
	body := `{"events":[{"id":"EV1","resource_type":"payments","action":"confirmed"}]}`
	rr := postWebhook(t, h, body, webhook.Sign(testSandboxSecret, []byte(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var result webhook.BatchResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(result.Outcomes))
	}
	if result.Outcomes[0].Status != "failed" {
		t.Errorf("outcome = %s, want failed", result.Outcomes[0].Status)
	}

	recorded, err := deliveries.ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recorded) != 1 || recorded[0].EventID != "EV1" {
		t.Errorf("deliveries = %+v", recorded)
	}
}
