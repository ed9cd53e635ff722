package webhook

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"ddsync/internal/gocardless"
	"ddsync/internal/platform/models"
	"ddsync/internal/platform/repositories"
)

const testSchema = `
	CREATE TABLE recurring_contributions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		trxn_id TEXT,
		amount REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'GBP',
		frequency_unit TEXT NOT NULL DEFAULT 'month',
		frequency_interval INTEGER NOT NULL DEFAULT 1,
		installments INTEGER NOT NULL DEFAULT 0,
		start_date TEXT,
		end_date TEXT,
		is_test INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE contributions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL,
		contribution_recur_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		trxn_id TEXT,
		total_amount REAL NOT NULL DEFAULT 0,
		receive_date TEXT,
		is_test INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE membership_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		duration_unit TEXT NOT NULL DEFAULT 'year',
		duration_interval INTEGER NOT NULL DEFAULT 1,
		minimum_fee REAL NOT NULL DEFAULT 0
	);
	CREATE TABLE memberships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL,
		membership_type_id INTEGER NOT NULL,
		contribution_recur_id INTEGER,
		status TEXT NOT NULL DEFAULT 'Pending',
		join_date TEXT,
		start_date TEXT,
		end_date TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE membership_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		membership_id INTEGER NOT NULL,
		contribution_id INTEGER NOT NULL
	);
	CREATE TABLE webhook_deliveries (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		action TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT,
		created_at INTEGER NOT NULL
	);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fakeGateway struct {
	payments      map[string]*gocardless.Payment
	subscriptions map[string]*gocardless.Subscription
}

func (f *fakeGateway) GetPayment(ctx context.Context, id string) (*gocardless.Payment, error) {
	if p, ok := f.payments[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: payment %s", gocardless.ErrUnavailable, id)
}

func (f *fakeGateway) GetSubscription(ctx context.Context, id string) (*gocardless.Subscription, error) {
	if s, ok := f.subscriptions[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: subscription %s", gocardless.ErrUnavailable, id)
}

type fixture struct {
	db         *sql.DB
	billing    *repositories.Billing
	deliveries *repositories.DeliveryRepository
	gateway    *fakeGateway
	processor  *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	billing := repositories.NewBilling(db)
	deliveries := repositories.NewDeliveryRepository(db)
	gateway := &fakeGateway{
		payments:      map[string]*gocardless.Payment{},
		subscriptions: map[string]*gocardless.Subscription{},
	}
	return &fixture{
		db:         db,
		billing:    billing,
		deliveries: deliveries,
		gateway:    gateway,
		processor:  NewProcessor(gateway, billing, deliveries, true),
	}
}

func (f *fixture) createRecurring(t *testing.T, trxnID string) *models.RecurringContribution {
	t.Helper()
	rc := &models.RecurringContribution{
		ContactID:         1,
		Status:            models.RecurStatusInProgress,
		TrxnID:            trxnID,
		Amount:            50,
		Currency:          "GBP",
		FrequencyUnit:     "year",
		FrequencyInterval: 1,
		IsTest:            true,
	}
	if err := f.billing.CreateRecurring(rc); err != nil {
		t.Fatalf("Failed to create recurring contribution: %v", err)
	}
	return rc
}

func (f *fixture) createContribution(t *testing.T, recurID int64, status, trxnID, receiveDate string) *models.Contribution {
	t.Helper()
	c := &models.Contribution{
		ContactID:   1,
		RecurID:     recurID,
		Status:      status,
		TrxnID:      trxnID,
		TotalAmount: 1,
		ReceiveDate: receiveDate,
		IsTest:      true,
	}
	if err := f.billing.CreateContribution(c); err != nil {
		t.Fatalf("Failed to create contribution: %v", err)
	}
	return c
}

func (f *fixture) createAnnualMembership(t *testing.T, recurID int64, status, joinDate, startDate, endDate string) *models.Membership {
	t.Helper()
	mt := &models.MembershipType{Name: "Annual", DurationUnit: "year", DurationInterval: 1, MinimumFee: 50}
	if err := f.billing.CreateMembershipType(mt); err != nil {
		t.Fatalf("Failed to create membership type: %v", err)
	}
	m := &models.Membership{
		ContactID: 1,
		TypeID:    mt.ID,
		RecurID:   recurID,
		Status:    status,
		JoinDate:  joinDate,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := f.billing.CreateMembership(m); err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	return m
}
