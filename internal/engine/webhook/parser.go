package webhook

import "encoding/json"

// ParseEvents decodes a webhook body and keeps only the events we handle,
// preserving payload order. Order matters: a later event may depend on state
// mutated by an earlier one in the same delivery.
func ParseEvents(body []byte) ([]Event, error) {
	if len(body) == 0 {
		return nil, ErrMalformedPayload
	}

	var payload struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrMalformedPayload
	}
	if payload.Events == nil {
		return nil, ErrMalformedPayload
	}

	var events []Event
	for _, ev := range payload.Events {
		if ev.handled() {
			events = append(events, ev)
		}
	}
	return events, nil
}
