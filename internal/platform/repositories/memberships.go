package repositories

import (
	"database/sql"
	"time"

	"ddsync/internal/platform/models"
)

func (r *Billing) CreateMembership(m *models.Membership) error {
	now := time.Now().Unix()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO memberships (
			contact_id, membership_type_id, contribution_recur_id,
			status, join_date, start_date, end_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.Exec(query,
		m.ContactID, m.TypeID, m.RecurID,
		m.Status, m.JoinDate, m.StartDate, m.EndDate, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (r *Billing) MembershipByID(id int64) (*models.Membership, error) {
	row := r.db.QueryRow(selectMembership+" WHERE id = ?", id)
	return scanMembership(row)
}

// MembershipByRecurID finds the membership paid for by a recurring
// contribution, if any. Returns nil when none exists.
func (r *Billing) MembershipByRecurID(recurID int64) (*models.Membership, error) {
	row := r.db.QueryRow(selectMembership+" WHERE contribution_recur_id = ?", recurID)
	return scanMembership(row)
}

func (r *Billing) UpdateMembership(m *models.Membership) error {
	m.UpdatedAt = time.Now().Unix()
	query := `
		UPDATE memberships SET
			status = ?, join_date = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, m.Status, m.JoinDate, m.StartDate, m.EndDate, m.UpdatedAt, m.ID)
	return err
}

func (r *Billing) CreateMembershipType(mt *models.MembershipType) error {
	query := `
		INSERT INTO membership_types (name, duration_unit, duration_interval, minimum_fee)
		VALUES (?, ?, ?, ?)
	`
	res, err := r.db.Exec(query, mt.Name, mt.DurationUnit, mt.DurationInterval, mt.MinimumFee)
	if err != nil {
		return err
	}
	mt.ID, err = res.LastInsertId()
	return err
}

func (r *Billing) MembershipTypeByID(id int64) (*models.MembershipType, error) {
	query := `
		SELECT id, name, duration_unit, duration_interval, minimum_fee
		FROM membership_types WHERE id = ?
	`
	row := r.db.QueryRow(query, id)

	var mt models.MembershipType
	err := row.Scan(&mt.ID, &mt.Name, &mt.DurationUnit, &mt.DurationInterval, &mt.MinimumFee)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

func (r *Billing) CreateMembershipPayment(mp *models.MembershipPayment) error {
	query := `INSERT INTO membership_payments (membership_id, contribution_id) VALUES (?, ?)`
	res, err := r.db.Exec(query, mp.MembershipID, mp.ContributionID)
	if err != nil {
		return err
	}
	mp.ID, err = res.LastInsertId()
	return err
}

const selectMembership = `
	SELECT id, contact_id, membership_type_id, contribution_recur_id,
	       status, join_date, start_date, end_date, created_at, updated_at
	FROM memberships`

func scanMembership(row *sql.Row) (*models.Membership, error) {
	var m models.Membership
	var recurID sql.NullInt64
	var joinDate, startDate, endDate sql.NullString
	err := row.Scan(
		&m.ID, &m.ContactID, &m.TypeID, &recurID,
		&m.Status, &joinDate, &startDate, &endDate, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.RecurID = recurID.Int64
	m.JoinDate = joinDate.String
	m.StartDate = startDate.String
	m.EndDate = endDate.String
	return &m, nil
}
