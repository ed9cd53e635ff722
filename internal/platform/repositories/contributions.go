package repositories

import (
	"database/sql"
	"time"

	"ddsync/internal/platform/models"
)

func (r *Billing) CreateContribution(c *models.Contribution) error {
	now := time.Now().Unix()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO contributions (
			contact_id, contribution_recur_id, status, trxn_id,
			total_amount, receive_date, is_test, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.Exec(query,
		c.ContactID,
		c.RecurID,
		c.Status,
		c.TrxnID,
		c.TotalAmount,
		c.ReceiveDate,
		c.IsTest,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r *Billing) ContributionByID(id int64) (*models.Contribution, error) {
	row := r.db.QueryRow(selectContribution+" WHERE id = ?", id)
	return scanContribution(row)
}

func (r *Billing) ContributionByTrxnID(trxnID string, isTest bool) (*models.Contribution, error) {
	row := r.db.QueryRow(selectContribution+" WHERE trxn_id = ? AND is_test = ?", trxnID, isTest)
	return scanContribution(row)
}

// FirstContribution returns the earliest contribution under a recurring
// contribution: the one created by the mandate-setup flow.
func (r *Billing) FirstContribution(recurID int64) (*models.Contribution, error) {
	row := r.db.QueryRow(selectContribution+" WHERE contribution_recur_id = ? ORDER BY id ASC LIMIT 1", recurID)
	return scanContribution(row)
}

// LatestPendingContribution returns the most recently created Pending
// contribution, i.e. the one awaiting its next charge.
func (r *Billing) LatestPendingContribution(recurID int64) (*models.Contribution, error) {
	query := selectContribution + `
		WHERE contribution_recur_id = ? AND status = ?
		ORDER BY receive_date DESC, id DESC LIMIT 1`
	row := r.db.QueryRow(query, recurID, models.ContributionStatusPending)
	return scanContribution(row)
}

func (r *Billing) ContributionsForRecur(recurID int64) ([]*models.Contribution, error) {
	rows, err := r.db.Query(selectContribution+" WHERE contribution_recur_id = ? ORDER BY id ASC", recurID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		var c models.Contribution
		var trxnID, receiveDate sql.NullString
		if err := rows.Scan(
			&c.ID, &c.ContactID, &c.RecurID, &c.Status, &trxnID,
			&c.TotalAmount, &receiveDate, &c.IsTest, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.TrxnID = trxnID.String
		c.ReceiveDate = receiveDate.String
		contributions = append(contributions, &c)
	}
	return contributions, rows.Err()
}

func (r *Billing) UpdateContribution(c *models.Contribution) error {
	c.UpdatedAt = time.Now().Unix()
	query := `
		UPDATE contributions SET
			status = ?, trxn_id = ?, total_amount = ?, receive_date = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, c.Status, c.TrxnID, c.TotalAmount, c.ReceiveDate, c.UpdatedAt, c.ID)
	return err
}

const selectContribution = `
	SELECT id, contact_id, contribution_recur_id, status, trxn_id,
	       total_amount, receive_date, is_test, created_at, updated_at
	FROM contributions`

func scanContribution(row *sql.Row) (*models.Contribution, error) {
	var c models.Contribution
	var trxnID, receiveDate sql.NullString
	err := row.Scan(
		&c.ID, &c.ContactID, &c.RecurID, &c.Status, &trxnID,
		&c.TotalAmount, &receiveDate, &c.IsTest, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.TrxnID = trxnID.String
	c.ReceiveDate = receiveDate.String
	return &c, nil
}
