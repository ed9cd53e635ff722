package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ddsync/internal/gocardless"
	"ddsync/internal/platform/models"
)

const dateLayout = "2006-01-02"

// Gateway fetches authoritative resource state from the provider. The webhook
// payload itself carries no status, so every event triggers a fresh fetch.
type Gateway interface {
	GetPayment(ctx context.Context, id string) (*gocardless.Payment, error)
	GetSubscription(ctx context.Context, id string) (*gocardless.Subscription, error)
}

// BillingStore is the persistence surface the processor needs.
type BillingStore interface {
	RecurringByTrxnID(trxnID string, isTest bool) (*models.RecurringContribution, error)
	UpdateRecurring(rc *models.RecurringContribution) error

	ContributionByTrxnID(trxnID string, isTest bool) (*models.Contribution, error)
	FirstContribution(recurID int64) (*models.Contribution, error)
	LatestPendingContribution(recurID int64) (*models.Contribution, error)
	CreateContribution(c *models.Contribution) error
	UpdateContribution(c *models.Contribution) error

	MembershipByRecurID(recurID int64) (*models.Membership, error)
	UpdateMembership(m *models.Membership) error
	MembershipTypeByID(id int64) (*models.MembershipType, error)
	CreateMembershipPayment(mp *models.MembershipPayment) error
}

// DeliveryLog records the outcome of every processed event.
type DeliveryLog interface {
	Create(d *models.WebhookDelivery) error
}

// Outcome is the per-event result within one delivery.
type Outcome struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"` // applied, ignored, failed
	Reason  string `json:"reason,omitempty"`
}

type BatchResult struct {
	Outcomes []Outcome `json:"outcomes"`
}

func (b *BatchResult) Counts() (applied, ignored, failed int) {
	for _, o := range b.Outcomes {
		switch o.Status {
		case models.DeliveryApplied:
			applied++
		case models.DeliveryIgnored:
			ignored++
		default:
			failed++
		}
	}
	return
}

// Processor applies verified webhook events to local billing records. One
// processor per mode; testMode scopes all record lookups.
type Processor struct {
	gateway    Gateway
	store      BillingStore
	deliveries DeliveryLog
	testMode   bool
}

func NewProcessor(gateway Gateway, store BillingStore, deliveries DeliveryLog, testMode bool) *Processor {
	return &Processor{
		gateway:    gateway,
		store:      store,
		deliveries: deliveries,
		testMode:   testMode,
	}
}

// Process handles events strictly in payload order. One event failing does
// not abort the batch; every outcome is collected so the caller can always
// acknowledge the delivery and stop provider retries.
func (p *Processor) Process(ctx context.Context, events []Event) *BatchResult {
	result := &BatchResult{}
	for _, ev := range events {
		outcome := Outcome{EventID: ev.ID, Status: models.DeliveryApplied}

		err := p.processEvent(ctx, &ev)
		var ignored *IgnoredError
		switch {
		case err == nil:
			log.Info().
				Str("event_id", ev.ID).
				Str("resource_type", ev.ResourceType).
				Str("action", ev.Action).
				Msg("webhook event applied")
		case errors.As(err, &ignored):
			outcome.Status = models.DeliveryIgnored
			outcome.Reason = ignored.Reason
			log.Debug().
				Str("event_id", ev.ID).
				Str("reason", ignored.Reason).
				Msg("webhook event ignored")
		default:
			outcome.Status = models.DeliveryFailed
			outcome.Reason = err.Error()
			log.Error().
				Err(err).
				Str("event_id", ev.ID).
				Str("resource_type", ev.ResourceType).
				Str("action", ev.Action).
				Msg("webhook event failed")
		}

		if logErr := p.deliveries.Create(&models.WebhookDelivery{
			EventID:      ev.ID,
			ResourceType: ev.ResourceType,
			Action:       ev.Action,
			Outcome:      outcome.Status,
			Reason:       outcome.Reason,
		}); logErr != nil {
			log.Error().Err(logErr).Str("event_id", ev.ID).Msg("failed to record webhook delivery")
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result
}

func (p *Processor) processEvent(ctx context.Context, ev *Event) error {
	switch ev.ResourceType {
	case ResourcePayments:
		return p.processPayment(ctx, ev)
	case ResourceSubscriptions:
		return p.processSubscription(ctx, ev)
	}
	return &IgnoredError{Reason: "unhandled resource type " + ev.ResourceType}
}

// acceptableStatuses maps a payment event action to the live statuses that
// still correspond to it. A confirmed payment may already be paid out by the
// time we fetch it.
var acceptableStatuses = map[string][]string{
	ActionConfirmed: {gocardless.PaymentConfirmed, gocardless.PaymentPaidOut},
	ActionFailed:    {gocardless.PaymentFailed},
}

func (p *Processor) processPayment(ctx context.Context, ev *Event) error {
	paymentID := ev.Links["payment"]
	if paymentID == "" {
		return ErrInvalidEventLinks
	}

	payment, err := p.getAndCheckPayment(ctx, paymentID, acceptableStatuses[ev.Action])
	if err != nil {
		return err
	}

	recur, err := p.store.RecurringByTrxnID(payment.Links.Subscription, p.testMode)
	if err != nil {
		return err
	}
	if recur == nil {
		return &NotFoundError{Resource: "subscription", ID: payment.Links.Subscription}
	}

	// Re-delivered events are detected by the payment id already being
	// recorded on a contribution.
	if existing, err := p.store.ContributionByTrxnID(payment.ID, p.testMode); err != nil {
		return err
	} else if existing != nil {
		return &IgnoredError{Reason: "payment " + payment.ID + " already recorded"}
	}

	membership, err := p.store.MembershipByRecurID(recur.ID)
	if err != nil {
		return err
	}

	status := models.ContributionStatusCompleted
	if ev.Action == ActionFailed {
		status = models.ContributionStatusFailed
	}

	first, err := p.store.FirstContribution(recur.ID)
	if err != nil {
		return err
	}

	firstPayment := first != nil && first.Status == models.ContributionStatusPending
	if firstPayment {
		// The contribution created at mandate setup is still awaiting its
		// charge: complete it rather than adding a row.
		first.ReceiveDate = payment.ChargeDate
		first.TotalAmount = float64(payment.Amount) / 100
		first.TrxnID = payment.ID
		first.Status = status
		if err := p.store.UpdateContribution(first); err != nil {
			return err
		}
	} else {
		contribution := &models.Contribution{
			ContactID:   recur.ContactID,
			RecurID:     recur.ID,
			Status:      status,
			TrxnID:      payment.ID,
			TotalAmount: float64(payment.Amount) / 100,
			ReceiveDate: payment.ChargeDate,
			IsTest:      p.testMode,
		}
		if err := p.store.CreateContribution(contribution); err != nil {
			return err
		}
		if membership != nil {
			if err := p.store.CreateMembershipPayment(&models.MembershipPayment{
				MembershipID:   membership.ID,
				ContributionID: contribution.ID,
			}); err != nil {
				return err
			}
		}
	}

	if membership != nil && ev.Action == ActionConfirmed {
		if err := p.renewMembership(membership, firstPayment); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) getAndCheckPayment(ctx context.Context, id string, expected []string) (*gocardless.Payment, error) {
	payment, err := p.gateway.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	ok := false
	for _, s := range expected {
		if payment.Status == s {
			ok = true
			break
		}
	}
	if !ok {
		// A later webhook already moved the payment past this state.
		return nil, &IgnoredError{Reason: "Webhook out of date"}
	}

	if payment.Links.Subscription == "" {
		return nil, &IgnoredError{Reason: "Ignored payment that does not belong to a subscription"}
	}
	return payment, nil
}

// renewMembership applies the membership side of a confirmed payment. The
// mandate-setup payment activates the membership from today; renewal payments
// roll the end date forward from wherever it currently is.
func (p *Processor) renewMembership(m *models.Membership, firstPayment bool) error {
	mt, err := p.store.MembershipTypeByID(m.TypeID)
	if err != nil {
		return err
	}
	if mt == nil {
		return fmt.Errorf("membership %d has unknown membership type %d", m.ID, m.TypeID)
	}

	if firstPayment {
		today := time.Now().Format(dateLayout)
		end, err := addDuration(today, mt)
		if err != nil {
			return err
		}
		m.Status = models.MembershipStatusNew
		m.StartDate = today
		m.EndDate = end.AddDate(0, 0, -1).Format(dateLayout)
	} else {
		end, err := addDuration(m.EndDate, mt)
		if err != nil {
			return err
		}
		m.EndDate = end.Format(dateLayout)
	}
	return p.store.UpdateMembership(m)
}

func addDuration(date string, mt *models.MembershipType) (time.Time, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad membership date %q: %w", date, err)
	}
	switch mt.DurationUnit {
	case "year":
		return t.AddDate(mt.DurationInterval, 0, 0), nil
	case "month":
		return t.AddDate(0, mt.DurationInterval, 0), nil
	case "day":
		return t.AddDate(0, 0, mt.DurationInterval), nil
	}
	return time.Time{}, fmt.Errorf("unknown membership duration unit %q", mt.DurationUnit)
}

var terminalSubscriptionStatus = map[string]string{
	ActionCancelled: gocardless.SubscriptionCancelled,
	ActionFinished:  gocardless.SubscriptionFinished,
}

func (p *Processor) processSubscription(ctx context.Context, ev *Event) error {
	subscriptionID := ev.Links["subscription"]
	if subscriptionID == "" {
		return ErrInvalidEventLinks
	}

	subscription, err := p.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if subscription.Status != terminalSubscriptionStatus[ev.Action] {
		return &IgnoredError{Reason: "Webhook out of date"}
	}

	recur, err := p.store.RecurringByTrxnID(subscriptionID, p.testMode)
	if err != nil {
		return err
	}
	if recur == nil {
		return &NotFoundError{Resource: "subscription", ID: subscriptionID}
	}

	recur.EndDate = subscription.EndDate
	if ev.Action == ActionFinished {
		// The subscription ran through its installment count.
		recur.Status = models.RecurStatusCompleted
	} else {
		recur.Status = models.RecurStatusCancelled
	}
	if err := p.store.UpdateRecurring(recur); err != nil {
		return err
	}

	// A contribution still waiting on its next charge will never be
	// collected now.
	pending, err := p.store.LatestPendingContribution(recur.ID)
	if err != nil {
		return err
	}
	if pending != nil {
		pending.Status = models.ContributionStatusCancelled
		if err := p.store.UpdateContribution(pending); err != nil {
			return err
		}
	}
	return nil
}
