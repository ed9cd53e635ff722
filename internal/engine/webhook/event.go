package webhook

// Resource types and actions we act on. Anything else in a delivery is
// dropped without error so new provider event kinds don't break us.
const (
	ResourcePayments      = "payments"
	ResourceSubscriptions = "subscriptions"

	ActionConfirmed = "confirmed"
	ActionFailed    = "failed"
	ActionCancelled = "cancelled"
	ActionFinished  = "finished"
)

// Event is one entry of a webhook delivery's events array. Links maps a
// relation name ("payment", "subscription") to the external resource id.
type Event struct {
	ID           string            `json:"id"`
	ResourceType string            `json:"resource_type"`
	Action       string            `json:"action"`
	Links        map[string]string `json:"links"`
}

var handledActions = map[string]map[string]bool{
	ResourcePayments:      {ActionConfirmed: true, ActionFailed: true},
	ResourceSubscriptions: {ActionCancelled: true, ActionFinished: true},
}

func (e *Event) handled() bool {
	return handledActions[e.ResourceType][e.Action]
}
