package models

// CheckoutSession bridges the redirect-out/redirect-back checkout flow. It is
// keyed by the provider's redirect flow id and expires if the customer never
// returns.
type CheckoutSession struct {
	FlowID       string `json:"flow_id"`
	TestMode     bool   `json:"test_mode"`
	SessionToken string `json:"session_token"`
	Description  string `json:"description,omitempty"`
	ContactID    int64  `json:"contact_id"`
	ContributionID      int64 `json:"contribution_id,omitempty"`
	ContributionRecurID int64 `json:"contribution_recur_id,omitempty"`
	MembershipID        int64 `json:"membership_id,omitempty"`
	EntryURL     string `json:"entry_url,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	CreatedAt    int64  `json:"created_at"`
}
