package repositories

import (
	"database/sql"
	"time"

	"ddsync/internal/platform/models"
)

func (r *Billing) CreateRecurring(rc *models.RecurringContribution) error {
	now := time.Now().Unix()
	rc.CreatedAt = now
	rc.UpdatedAt = now

	query := `
		INSERT INTO recurring_contributions (
			contact_id, status, trxn_id, amount, currency,
			frequency_unit, frequency_interval, installments,
			start_date, end_date, is_test, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.Exec(query,
		rc.ContactID,
		rc.Status,
		rc.TrxnID,
		rc.Amount,
		rc.Currency,
		rc.FrequencyUnit,
		rc.FrequencyInterval,
		rc.Installments,
		rc.StartDate,
		rc.EndDate,
		rc.IsTest,
		rc.CreatedAt,
		rc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rc.ID, err = res.LastInsertId()
	return err
}

func (r *Billing) RecurringByID(id int64) (*models.RecurringContribution, error) {
	row := r.db.QueryRow(selectRecurring+" WHERE id = ?", id)
	return scanRecurring(row)
}

// RecurringByTrxnID finds the local record for a provider subscription id.
// Returns nil without error when no record matches.
func (r *Billing) RecurringByTrxnID(trxnID string, isTest bool) (*models.RecurringContribution, error) {
	row := r.db.QueryRow(selectRecurring+" WHERE trxn_id = ? AND is_test = ?", trxnID, isTest)
	return scanRecurring(row)
}

func (r *Billing) UpdateRecurring(rc *models.RecurringContribution) error {
	rc.UpdatedAt = time.Now().Unix()
	query := `
		UPDATE recurring_contributions SET
			status = ?, trxn_id = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, rc.Status, rc.TrxnID, rc.StartDate, rc.EndDate, rc.UpdatedAt, rc.ID)
	return err
}

const selectRecurring = `
	SELECT id, contact_id, status, trxn_id, amount, currency,
	       frequency_unit, frequency_interval, installments,
	       start_date, end_date, is_test, created_at, updated_at
	FROM recurring_contributions`

func scanRecurring(row *sql.Row) (*models.RecurringContribution, error) {
	var rc models.RecurringContribution
	var trxnID, startDate, endDate sql.NullString
	err := row.Scan(
		&rc.ID, &rc.ContactID, &rc.Status, &trxnID, &rc.Amount, &rc.Currency,
		&rc.FrequencyUnit, &rc.FrequencyInterval, &rc.Installments,
		&startDate, &endDate, &rc.IsTest, &rc.CreatedAt, &rc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rc.TrxnID = trxnID.String
	rc.StartDate = startDate.String
	rc.EndDate = endDate.String
	return &rc, nil
}
