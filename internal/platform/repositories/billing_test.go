package repositories

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"ddsync/internal/platform/models"
)

func TestRecurringByTrxnIDScopedByTestMode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBilling(db)

	live := &models.RecurringContribution{ContactID: 1, Status: models.RecurStatusInProgress, TrxnID: "SB_1", Amount: 10, Currency: "GBP", FrequencyUnit: "month", FrequencyInterval: 1}
	if err := repo.CreateRecurring(live); err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	test := &models.RecurringContribution{ContactID: 2, Status: models.RecurStatusInProgress, TrxnID: "SB_1", Amount: 10, Currency: "GBP", FrequencyUnit: "month", FrequencyInterval: 1, IsTest: true}
	if err := repo.CreateRecurring(test); err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}

	got, err := repo.RecurringByTrxnID("SB_1", true)
	if err != nil {
		t.Fatalf("RecurringByTrxnID: %v", err)
	}
	if got == nil || got.ID != test.ID {
		t.Errorf("test-mode lookup returned %+v, want id %d", got, test.ID)
	}

	got, err = repo.RecurringByTrxnID("SB_1", false)
	if err != nil {
		t.Fatalf("RecurringByTrxnID: %v", err)
	}
	if got == nil || got.ID != live.ID {
		t.Errorf("live lookup returned %+v, want id %d", got, live.ID)
	}

	got, err = repo.RecurringByTrxnID("SB_MISSING", true)
	if err != nil {
		t.Fatalf("RecurringByTrxnID: %v", err)
	}
	if got != nil {
		t.Errorf("missing lookup returned %+v, want nil", got)
	}
}

func TestFirstContribution(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBilling(db)

	first := &models.Contribution{ContactID: 1, RecurID: 9, Status: models.ContributionStatusPending, ReceiveDate: "2016-10-05"}
	if err := repo.CreateContribution(first); err != nil {
		t.Fatalf("CreateContribution: %v", err)
	}
	// Earlier receive date but created later: still not the first.
	second := &models.Contribution{ContactID: 1, RecurID: 9, Status: models.ContributionStatusCompleted, ReceiveDate: "2016-09-01"}
	if err := repo.CreateContribution(second); err != nil {
		t.Fatalf("CreateContribution: %v", err)
	}

	got, err := repo.FirstContribution(9)
	if err != nil {
		t.Fatalf("FirstContribution: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Errorf("FirstContribution returned %+v, want id %d", got, first.ID)
	}

	got, err = repo.FirstContribution(404)
	if err != nil {
		t.Fatalf("FirstContribution: %v", err)
	}
	if got != nil {
		t.Errorf("FirstContribution(404) = %+v, want nil", got)
	}
}

func TestLatestPendingContributionTieBreak(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBilling(db)

	create := func(status, receiveDate string) *models.Contribution {
		c := &models.Contribution{ContactID: 1, RecurID: 9, Status: status, ReceiveDate: receiveDate}
		if err := repo.CreateContribution(c); err != nil {
			t.Fatalf("CreateContribution: %v", err)
		}
		return c
	}

	create(models.ContributionStatusCompleted, "2016-10-10")
	create(models.ContributionStatusPending, "2016-10-01")
	// Two pending rows on the same receive date: the higher id wins.
	create(models.ContributionStatusPending, "2016-10-05")
	want := create(models.ContributionStatusPending, "2016-10-05")

	got, err := repo.LatestPendingContribution(9)
	if err != nil {
		t.Fatalf("LatestPendingContribution: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Errorf("LatestPendingContribution returned %+v, want id %d", got, want.ID)
	}
}

func TestContributionByTrxnIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBilling(db)

	got, err := repo.ContributionByTrxnID("PM_MISSING", true)
	if err != nil {
		t.Fatalf("ContributionByTrxnID: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestRecurringByTrxnIDQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBilling(db)

	wantErr := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT (.+) FROM recurring_contributions WHERE trxn_id = ?").
		WithArgs("SB_1", true).
		WillReturnError(wantErr)

	if _, err := repo.RecurringByTrxnID("SB_1", true); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
