package models

// Webhook delivery outcomes.
const (
	DeliveryApplied = "applied"
	DeliveryIgnored = "ignored"
	DeliveryFailed  = "failed"
)

// WebhookDelivery is the audit record written for every processed event.
type WebhookDelivery struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	ResourceType string `json:"resource_type"`
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}
