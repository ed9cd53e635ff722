package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"ddsync/internal/gocardless"
	"ddsync/internal/platform/config"
	"ddsync/internal/platform/models"
)

var (
	ErrUnknownFlow       = errors.New("unknown or expired redirect flow")
	ErrSessionTokenMismatch = errors.New("session token does not match redirect flow")
)

// Gateway is the provider surface the checkout flow needs.
type Gateway interface {
	CreateRedirectFlow(ctx context.Context, params *gocardless.RedirectFlowParams) (*gocardless.RedirectFlow, error)
	CompleteRedirectFlow(ctx context.Context, flowID, sessionToken string) (*gocardless.RedirectFlow, error)
	CreateSubscription(ctx context.Context, params *gocardless.SubscriptionParams) (*gocardless.Subscription, error)
}

// BillingStore is the subset of persistence the flow completion needs.
type BillingStore interface {
	RecurringByID(id int64) (*models.RecurringContribution, error)
	UpdateRecurring(rc *models.RecurringContribution) error
	ContributionByID(id int64) (*models.Contribution, error)
	UpdateContribution(c *models.Contribution) error
}

// SessionStore holds pending checkout context between the redirect out and
// the customer's return, keyed by redirect flow id.
type SessionStore interface {
	Create(s *models.CheckoutSession) error
	Get(flowID string) (*models.CheckoutSession, error)
	Delete(flowID string) error
}

type Service struct {
	live     Gateway
	sandbox  Gateway
	billing  BillingStore
	sessions SessionStore
	cfg      config.CheckoutConfig
}

func NewService(live, sandbox Gateway, billing BillingStore, sessions SessionStore, cfg config.CheckoutConfig) *Service {
	return &Service{
		live:     live,
		sandbox:  sandbox,
		billing:  billing,
		sessions: sessions,
		cfg:      cfg,
	}
}

func (s *Service) gateway(testMode bool) Gateway {
	if testMode {
		return s.sandbox
	}
	return s.live
}

type BeginRequest struct {
	TestMode     bool   `json:"test_mode"`
	SessionToken string `json:"session_token"`
	Description  string `json:"description,omitempty"`
	ContactID    int64  `json:"contact_id"`
	ContributionID      int64 `json:"contribution_id,omitempty"`
	ContributionRecurID int64 `json:"contribution_recur_id,omitempty"`
	MembershipID        int64 `json:"membership_id,omitempty"`
	EntryURL     string `json:"entry_url,omitempty"`

	FirstName string             `json:"first_name,omitempty"`
	LastName  string             `json:"last_name,omitempty"`
	Emails    map[string]string  `json:"emails,omitempty"`    // keyed by location type
	Addresses map[string]Address `json:"addresses,omitempty"` // keyed by location type
}

type BeginResponse struct {
	FlowID      string `json:"flow_id"`
	RedirectURL string `json:"redirect_url"`
}

// Begin creates a provider redirect flow and stashes the request context so
// Complete can correlate the customer's return with these records.
func (s *Service) Begin(ctx context.Context, req *BeginRequest) (*BeginResponse, error) {
	successURL := fmt.Sprintf("%s?qfKey=%s&cid=%d",
		s.cfg.SuccessURL, url.QueryEscape(req.SessionToken), req.ContactID)

	flow, err := s.gateway(req.TestMode).CreateRedirectFlow(ctx, &gocardless.RedirectFlowParams{
		SessionToken:       req.SessionToken,
		SuccessRedirectURL: successURL,
		Description:        req.Description,
		PrefilledCustomer:  buildPrefilledCustomer(req),
	})
	if err != nil {
		return nil, err
	}

	session := &models.CheckoutSession{
		FlowID:              flow.ID,
		TestMode:            req.TestMode,
		SessionToken:        req.SessionToken,
		Description:         req.Description,
		ContactID:           req.ContactID,
		ContributionID:      req.ContributionID,
		ContributionRecurID: req.ContributionRecurID,
		MembershipID:        req.MembershipID,
		EntryURL:            req.EntryURL,
		ExpiresAt:           time.Now().Add(s.cfg.SessionTTL).Unix(),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}

	log.Info().
		Str("flow_id", flow.ID).
		Int64("contact_id", req.ContactID).
		Bool("test_mode", req.TestMode).
		Msg("redirect flow created")

	return &BeginResponse{FlowID: flow.ID, RedirectURL: flow.RedirectURL}, nil
}

type CompleteResponse struct {
	SubscriptionID string `json:"subscription_id"`
	StartDate      string `json:"start_date"`
}

// Complete finishes the redirect flow after the customer authorised the
// mandate, creates the provider subscription and marks the local records as
// in progress. The first charge stays Pending until its payment webhook.
func (s *Service) Complete(ctx context.Context, flowID, sessionToken string) (*CompleteResponse, error) {
	session, err := s.sessions.Get(flowID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnknownFlow
	}
	if session.SessionToken != sessionToken {
		return nil, ErrSessionTokenMismatch
	}

	gateway := s.gateway(session.TestMode)
	flow, err := gateway.CompleteRedirectFlow(ctx, flowID, sessionToken)
	if err != nil {
		return nil, err
	}

	recur, err := s.billing.RecurringByID(session.ContributionRecurID)
	if err != nil {
		return nil, err
	}
	if recur == nil {
		return nil, fmt.Errorf("recurring contribution %d not found", session.ContributionRecurID)
	}

	intervalUnit, err := providerIntervalUnit(recur.FrequencyUnit)
	if err != nil {
		return nil, err
	}

	subscription, err := gateway.CreateSubscription(ctx, &gocardless.SubscriptionParams{
		Amount:       int(math.Round(recur.Amount * 100)),
		Currency:     recur.Currency,
		Name:         session.Description,
		Interval:     recur.FrequencyInterval,
		IntervalUnit: intervalUnit,
		Count:        recur.Installments,
		Links:        gocardless.SubscriptionLinks{Mandate: flow.Links.Mandate},
	})
	if err != nil {
		return nil, err
	}

	recur.TrxnID = subscription.ID
	recur.StartDate = subscription.StartDate
	recur.Status = models.RecurStatusInProgress
	if err := s.billing.UpdateRecurring(recur); err != nil {
		return nil, err
	}

	if session.ContributionID != 0 {
		contribution, err := s.billing.ContributionByID(session.ContributionID)
		if err != nil {
			return nil, err
		}
		if contribution != nil {
			contribution.ReceiveDate = subscription.StartDate
			if err := s.billing.UpdateContribution(contribution); err != nil {
				return nil, err
			}
		}
	}

	if err := s.sessions.Delete(flowID); err != nil {
		log.Warn().Err(err).Str("flow_id", flowID).Msg("failed to delete checkout session")
	}

	log.Info().
		Str("flow_id", flowID).
		Str("subscription_id", subscription.ID).
		Int64("contribution_recur_id", recur.ID).
		Msg("redirect flow completed")

	return &CompleteResponse{SubscriptionID: subscription.ID, StartDate: subscription.StartDate}, nil
}

func providerIntervalUnit(frequencyUnit string) (string, error) {
	switch frequencyUnit {
	case "week":
		return "weekly", nil
	case "month":
		return "monthly", nil
	case "year":
		return "yearly", nil
	}
	return "", fmt.Errorf("frequency unit %q has no provider equivalent", frequencyUnit)
}
