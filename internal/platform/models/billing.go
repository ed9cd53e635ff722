package models

// Contribution statuses mirror the CRM's contribution status option group.
const (
	ContributionStatusPending   = "Pending"
	ContributionStatusCompleted = "Completed"
	ContributionStatusFailed    = "Failed"
	ContributionStatusCancelled = "Cancelled"

	RecurStatusPending    = "Pending"
	RecurStatusInProgress = "In Progress"
	RecurStatusCompleted  = "Completed"
	RecurStatusCancelled  = "Cancelled"
)

// RecurringContribution is the local mirror of a provider subscription.
// TrxnID holds the provider subscription id once the mandate is set up.
type RecurringContribution struct {
	ID           int64   `json:"id"`
	ContactID    int64   `json:"contact_id"`
	Status       string  `json:"status"`
	TrxnID       string  `json:"trxn_id,omitempty"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	FrequencyUnit string `json:"frequency_unit"` // day, week, month, year
	FrequencyInterval int `json:"frequency_interval"`
	Installments int     `json:"installments,omitempty"` // 0 = open-ended
	StartDate    string  `json:"start_date,omitempty"`   // YYYY-MM-DD
	EndDate      string  `json:"end_date,omitempty"`
	IsTest       bool    `json:"is_test"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

// Contribution records one charge. TrxnID holds the provider payment id.
type Contribution struct {
	ID          int64   `json:"id"`
	ContactID   int64   `json:"contact_id"`
	RecurID     int64   `json:"contribution_recur_id"`
	Status      string  `json:"status"`
	TrxnID      string  `json:"trxn_id,omitempty"`
	TotalAmount float64 `json:"total_amount"`
	ReceiveDate string  `json:"receive_date,omitempty"` // YYYY-MM-DD
	IsTest      bool    `json:"is_test"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}
