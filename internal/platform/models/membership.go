package models

const (
	MembershipStatusPending = "Pending"
	MembershipStatusNew     = "New"
	MembershipStatusCurrent = "Current"
	MembershipStatusGrace   = "Grace"
	MembershipStatusExpired = "Expired"
)

type Membership struct {
	ID        int64  `json:"id"`
	ContactID int64  `json:"contact_id"`
	TypeID    int64  `json:"membership_type_id"`
	RecurID   int64  `json:"contribution_recur_id,omitempty"`
	Status    string `json:"status"`
	JoinDate  string `json:"join_date,omitempty"`  // YYYY-MM-DD
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// MembershipType carries the duration used to roll end dates forward on
// renewal, e.g. 1 year for an annual membership.
type MembershipType struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	DurationUnit     string `json:"duration_unit"` // day, month, year
	DurationInterval int    `json:"duration_interval"`
	MinimumFee       float64 `json:"minimum_fee"`
}

// MembershipPayment links a contribution to the membership it paid for.
type MembershipPayment struct {
	ID             int64 `json:"id"`
	MembershipID   int64 `json:"membership_id"`
	ContributionID int64 `json:"contribution_id"`
}
