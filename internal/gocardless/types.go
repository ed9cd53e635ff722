package gocardless

// Payment statuses, per the GoCardless payments API.
const (
	PaymentPendingSubmission      = "pending_submission"
	PaymentSubmitted              = "submitted"
	PaymentConfirmed              = "confirmed"
	PaymentPaidOut                = "paid_out"
	PaymentCancelled              = "cancelled"
	PaymentCustomerApprovalDenied = "customer_approval_denied"
	PaymentFailed                 = "failed"
	PaymentChargedBack            = "charged_back"
)

// Subscription statuses.
const (
	SubscriptionPendingCustomerApproval = "pending_customer_approval"
	SubscriptionCustomerApprovalDenied  = "customer_approval_denied"
	SubscriptionActive                  = "active"
	SubscriptionFinished                = "finished"
	SubscriptionCancelled               = "cancelled"
	SubscriptionPaused                  = "paused"
)

// Payment is a single collection attempt. Amount is in integer minor units
// (pence, cents). Links.Subscription is empty for one-off payments.
type Payment struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	ChargeDate string       `json:"charge_date"` // YYYY-MM-DD
	Amount     int          `json:"amount"`
	Links      PaymentLinks `json:"links"`
}

type PaymentLinks struct {
	Subscription string `json:"subscription,omitempty"`
	Mandate      string `json:"mandate,omitempty"`
}

// Subscription is a recurring charge schedule attached to a mandate.
type Subscription struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`
}

// RedirectFlow is the provider-hosted mandate-setup session.
type RedirectFlow struct {
	ID          string            `json:"id"`
	RedirectURL string            `json:"redirect_url"`
	Links       RedirectFlowLinks `json:"links"`
}

type RedirectFlowLinks struct {
	Mandate  string `json:"mandate,omitempty"`
	Customer string `json:"customer,omitempty"`
}

// PrefilledCustomer pre-populates the hosted payment pages.
type PrefilledCustomer struct {
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
	Email        string `json:"email,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}

type RedirectFlowParams struct {
	SessionToken       string             `json:"session_token"`
	SuccessRedirectURL string             `json:"success_redirect_url"`
	Description        string             `json:"description,omitempty"`
	PrefilledCustomer  *PrefilledCustomer `json:"prefilled_customer,omitempty"`
}

type SubscriptionParams struct {
	Amount       int               `json:"amount"` // minor units
	Currency     string            `json:"currency"`
	Name         string            `json:"name,omitempty"`
	Interval     int               `json:"interval"`
	IntervalUnit string            `json:"interval_unit"` // weekly, monthly, yearly
	Count        int               `json:"count,omitempty"`
	Links        SubscriptionLinks `json:"links"`
}

type SubscriptionLinks struct {
	Mandate string `json:"mandate"`
}
