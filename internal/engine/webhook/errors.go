package webhook

import "errors"

var (
	ErrUnsignedRequest  = errors.New("unsigned webhook request")
	ErrInvalidSignature = errors.New("invalid signature in request")
	ErrMalformedPayload = errors.New("invalid or missing data in request")

	// ErrInvalidEventLinks means an event lacked the resource link its kind
	// requires.
	ErrInvalidEventLinks = errors.New("event has no usable resource link")
)

// IgnoredError marks an event that is deliberately skipped rather than
// failed: stale deliveries and payments outside any subscription. It is an
// expected control path, logged at low severity.
type IgnoredError struct {
	Reason string
}

func (e *IgnoredError) Error() string {
	return e.Reason
}

// NotFoundError means an event referenced a provider resource with no local
// counterpart. The event is skipped; the rest of the batch still runs.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return "no local record for " + e.Resource + " " + e.ID
}
